//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package uri

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		importURI string
		baseDir   string
		want      string
		wantErr   error
	}{
		{
			name:      "http url ignores base dir",
			importURI: "http://example.com/a/b.json",
			baseDir:   "/anything",
			want:      "http://example.com/a/b.json",
		},
		{
			name:      "file url ignores base dir",
			importURI: "file:///home/user/interface.json",
			baseDir:   "/anything",
			want:      "file:///home/user/interface.json",
		},
		{
			name:      "unsupported scheme rejected",
			importURI: "ftp://example.com/f.json",
			wantErr:   ErrUnsupportedScheme,
		},
		{
			name:      "unix absolute path rejected",
			importURI: "/etc/passwd",
			wantErr:   ErrAbsolutePath,
		},
		{
			name:      "windows absolute path rejected",
			importURI: `C:\Windows\system32`,
			wantErr:   ErrAbsolutePath,
		},
		{
			name:      "relative path without base dir rejected",
			importURI: "interface.json",
			wantErr:   ErrNoBaseDir,
		},
		{
			name:      "relative path joined against plain directory",
			importURI: "interface.json",
			baseDir:   "/home/user/tmp",
			want:      "/home/user/tmp/interface.json",
		},
		{
			name:      "parent traversal resolved against plain directory",
			importURI: "../interface.json",
			baseDir:   "/home/user/tmp",
			want:      "/home/user/interface.json",
		},
		{
			name:      "relative path joined against base url",
			importURI: "interface.json",
			baseDir:   "http://localhost:8080/api/v1",
			want:      "http://localhost:8080/api/v1/interface.json",
		},
		{
			name:      "parent traversal resolved against file base url",
			importURI: "../interface.json",
			baseDir:   "file:///home/user/tmp",
			want:      "file:///home/user/interface.json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.importURI, tt.baseDir)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
