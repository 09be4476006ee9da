// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for users, conversations and
// messages.
package model

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
)

// =============================================================================
// AVATAR FILE CONSTRAINTS
// =============================================================================

// MaxAvatarSize is the largest avatar upload the backend accepts (5 MiB).
// Violations are rejected here, before any connection is opened.
const MaxAvatarSize = 5 << 20

var (
	ErrAvatarTooLarge    = errors.New("image size should be less than 5MB")
	ErrAvatarUnsupported = errors.New("please upload a valid image file (JPEG, PNG, GIF, or WebP)")
)

// allowedAvatarTypes are the content types the backend accepts.
var allowedAvatarTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// AvatarInfo describes a validated avatar file.
type AvatarInfo struct {
	Path        string
	ContentType string
	Size        int64
}

// CheckAvatar validates an avatar file by sniffing its content type and
// checking its size. The content type comes from the file bytes, not the
// extension, so a renamed binary is still rejected.
func CheckAvatar(path string) (AvatarInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return AvatarInfo{}, fmt.Errorf("failed to open avatar file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return AvatarInfo{}, fmt.Errorf("failed to stat avatar file: %w", err)
	}
	if info.IsDir() {
		return AvatarInfo{}, fmt.Errorf("%s is a directory", path)
	}
	if info.Size() > MaxAvatarSize {
		return AvatarInfo{}, ErrAvatarTooLarge
	}

	// DetectContentType needs at most 512 bytes.
	head := make([]byte, 512)
	n, err := f.Read(head)
	if err != nil && err != io.EOF {
		return AvatarInfo{}, fmt.Errorf("failed to read avatar file: %w", err)
	}

	contentType := http.DetectContentType(head[:n])
	if !allowedAvatarTypes[contentType] {
		return AvatarInfo{}, ErrAvatarUnsupported
	}

	return AvatarInfo{
		Path:        path,
		ContentType: contentType,
		Size:        info.Size(),
	}, nil
}
