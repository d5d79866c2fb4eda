// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package feed

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/jeranaias/steptrail/internal/logging"
	"github.com/jeranaias/steptrail/internal/model"
)

// ErrEmptyTranscript is returned when a transcript has no usable frames.
var ErrEmptyTranscript = errors.New("transcript has no frames")

// Frame is the set of changes applied at one instant.
type Frame struct {
	AtMs     int64               `json:"at_ms"`
	Messages []model.ChatMessage `json:"messages,omitempty"`
	Remove   []string            `json:"remove,omitempty"`

	// Skipped counts messages dropped by validation.
	Skipped int `json:"-"`
}

// At returns the frame's offset from the start of the replay.
func (f Frame) At() time.Duration {
	return time.Duration(f.AtMs) * time.Millisecond
}

// Transcript is an ordered list of frames.
type Transcript struct {
	Frames []Frame `json:"frames"`
}

// Duration is the offset of the last frame.
func (t *Transcript) Duration() time.Duration {
	if len(t.Frames) == 0 {
		return 0
	}
	return t.Frames[len(t.Frames)-1].At()
}

// Until returns the frames whose offset is at or before at.
func (t *Transcript) Until(at time.Duration) []Frame {
	n := sort.Search(len(t.Frames), func(i int) bool {
		return t.Frames[i].At() > at
	})
	return t.Frames[:n]
}

// Load reads a transcript file. Files ending in .yaml or .yml are YAML;
// everything else is JSON.
func Load(path string) (*Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.YAMLToJSON(data)
		if err != nil {
			return nil, fmt.Errorf("parse transcript %s: %w", path, err)
		}
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("transcript %s: %w", path, err)
	}
	return t, nil
}

// Parse decodes a JSON transcript. The top level may be an object with a
// "frames" key or a bare array of frames. Frames are sorted by offset,
// messages without an ID get one, and invalid messages are logged and
// dropped.
func Parse(data []byte) (*Transcript, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, ErrEmptyTranscript
	}

	var t Transcript
	if data[0] == '[' {
		if err := json.Unmarshal(data, &t.Frames); err != nil {
			return nil, fmt.Errorf("decode frames: %w", err)
		}
	} else if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decode transcript: %w", err)
	}

	if err := t.normalize(); err != nil {
		return nil, err
	}
	return &t, nil
}

func (t *Transcript) normalize() error {
	frames := t.Frames[:0]
	for i, f := range t.Frames {
		if f.AtMs < 0 {
			return fmt.Errorf("frame %d: negative offset %dms", i, f.AtMs)
		}

		msgs := f.Messages[:0]
		for _, msg := range f.Messages {
			if msg.ID == "" {
				msg.ID = model.NewID()
			}
			if err := msg.Validate(); err != nil {
				logging.WithFields(map[string]interface{}{
					"frame": i,
					"id":    msg.ID,
				}).WithError(err).Warn("skipping invalid message")
				f.Skipped++
				continue
			}
			msgs = append(msgs, msg)
		}
		f.Messages = msgs

		if len(f.Messages) == 0 && len(f.Remove) == 0 && f.Skipped == 0 {
			continue
		}
		frames = append(frames, f)
	}

	sort.SliceStable(frames, func(i, j int) bool {
		return frames[i].AtMs < frames[j].AtMs
	})
	t.Frames = frames

	if len(t.Frames) == 0 {
		return ErrEmptyTranscript
	}
	return nil
}
