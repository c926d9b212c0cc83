//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package manifest

import "testing"

func TestValidateLocaleTagsAcceptsWellFormedBCP47(t *testing.T) {
	l := &Locale{Locales: map[string]LocaleEntry{
		"en":         {Content: strp("hello")},
		"en-US":      {Content: strp("hello")},
		"zh-Hans-CN": {Content: strp("hi")},
	}}
	if err := l.ValidateLocaleTags(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidateLocaleTagsRejectsMalformedTag(t *testing.T) {
	l := &Locale{Locales: map[string]LocaleEntry{
		"not a tag": {Content: strp("hello")},
	}}
	if err := l.ValidateLocaleTags(); err == nil {
		t.Fatal("expected an error for a malformed locale tag")
	}
}

func TestValidateLocaleTagsNilReceiverIsNoop(t *testing.T) {
	var l *Locale
	if err := l.ValidateLocaleTags(); err != nil {
		t.Fatalf("expected nil receiver to be a no-op, got %v", err)
	}
}
