//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package uri resolves the import_uri values that graph and manifest
// documents use to reference other files: relative filesystem paths,
// file:// URLs, and http(s):// URLs, all against a base directory or base
// URL (spec.md §4.1).
package uri

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
)

// Error kinds surfaced by Resolve.
var (
	// ErrAbsolutePath marks an import_uri given as an absolute filesystem
	// path, which is never supported (use a file:// URI or a relative path).
	ErrAbsolutePath = errors.New("uri: absolute paths are not supported in import_uri")
	// ErrUnsupportedScheme marks an import_uri or base_dir URL whose scheme
	// is not http, https, or file.
	ErrUnsupportedScheme = errors.New("uri: unsupported URL scheme")
	// ErrNoBaseDir marks a relative import_uri given without a base_dir.
	ErrNoBaseDir = errors.New("uri: base directory is required to resolve a relative import_uri")
)

var windowsDriveLetter = regexp.MustCompile(`^[a-zA-Z]:[\\/]`)

// Resolve computes the real location importURI refers to, given the base
// directory (or base URL) baseDir that it was declared relative to.
//
// importURI may be:
//   - an http(s):// or file:// URL, in which case baseDir is ignored;
//   - a relative filesystem path, resolved against baseDir (itself either a
//     plain directory or a base URL, joined with URL-join semantics).
//
// Absolute filesystem paths (Unix "/..." or Windows "C:\...") are rejected.
func Resolve(importURI, baseDir string) (string, error) {
	if isAbsoluteFilePath(importURI) {
		return "", fmt.Errorf("%w: %q", ErrAbsolutePath, importURI)
	}

	if u, err := url.Parse(importURI); err == nil && u.IsAbs() {
		switch u.Scheme {
		case "http", "https", "file":
			return u.String(), nil
		default:
			return "", fmt.Errorf("%w %q in import_uri: %q", ErrUnsupportedScheme, u.Scheme, importURI)
		}
	}

	if baseDir == "" {
		return "", fmt.Errorf("%w: %q", ErrNoBaseDir, importURI)
	}

	if baseURL, err := url.Parse(baseDir); err == nil && isRealURLScheme(baseURL) {
		joined, err := joinBaseURL(baseURL, importURI)
		if err != nil {
			return "", fmt.Errorf("uri: resolving %q against base URL %q: %w", importURI, baseDir, err)
		}
		return joined, nil
	}

	return normalizePath(filepath.ToSlash(filepath.Join(baseDir, importURI))), nil
}

// isAbsoluteFilePath reports whether s is an absolute Unix or Windows
// filesystem path (as opposed to a URL or a relative path).
func isAbsoluteFilePath(s string) bool {
	if filepath.IsAbs(s) {
		return true
	}
	return windowsDriveLetter.MatchString(s)
}

// isRealURLScheme reports whether u carries a genuine multi-letter URL
// scheme, filtering out the false positive of a Windows drive letter
// ("c:\foo") which url.Parse also accepts as scheme "c".
func isRealURLScheme(u *url.URL) bool {
	return u != nil && len(u.Scheme) > 1 && !strings.EqualFold(u.Scheme, "c")
}

func joinBaseURL(base *url.URL, importURI string) (string, error) {
	b := *base
	if !strings.HasSuffix(b.Path, "/") {
		b.Path += "/"
	}
	ref, err := url.Parse(importURI)
	if err != nil {
		return "", err
	}
	return b.ResolveReference(ref).String(), nil
}

// normalizePath resolves "." and ".." components of a slash-separated path
// purely lexically, without touching the filesystem, mirroring
// filepath.Clean's semantics on a forward-slash path.
func normalizePath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}
