package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// Music styles
const (
	MusicStyleSimilar = "similar"
	MusicStyleUnique  = "unique"
)

// Reference kinds passed to the tag resolver
const (
	ReferenceArtist = "artist"
	ReferenceSong   = "song"
	ReferenceVision = "vision"
)

var (
	ErrNoData      = errors.New("no data provided")
	ErrInvalidJSON = errors.New("invalid JSON body")
)

// JobConfig is the job description posted by the client. Every key is
// optional and unknown keys are ignored.
type JobConfig struct {
	MusicStyle      string `json:"musicStyle,omitempty"`
	ArtistReference string `json:"artistReference,omitempty"`
	SongReference   string `json:"songReference,omitempty"`
	UniqueVision    string `json:"uniqueVision,omitempty"`
	Vision          string `json:"vision,omitempty"`
}

// ParseJobConfig decodes a request body. An empty body, JSON null and an
// empty object all count as "no data".
func ParseJobConfig(raw []byte) (*JobConfig, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, ErrNoData
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, ErrInvalidJSON
	}
	if len(fields) == 0 {
		return nil, ErrNoData
	}

	cfg := &JobConfig{
		MusicStyle:      stringField(fields, "musicStyle"),
		ArtistReference: stringField(fields, "artistReference"),
		SongReference:   stringField(fields, "songReference"),
		UniqueVision:    stringField(fields, "uniqueVision"),
		Vision:          stringField(fields, "vision"),
	}
	return cfg, nil
}

// stringField reads a string value; non-string values are treated as absent.
func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

// Reference picks the text and kind the tag resolver should be asked about.
// ok is false when the fallback prompt should be used instead.
func (c *JobConfig) Reference() (text, kind string, ok bool) {
	switch c.MusicStyle {
	case MusicStyleSimilar:
		if c.ArtistReference != "" {
			return c.ArtistReference, ReferenceArtist, true
		}
		if c.SongReference != "" {
			return c.SongReference, ReferenceSong, true
		}
	case MusicStyleUnique:
		if c.UniqueVision != "" {
			return c.UniqueVision, ReferenceVision, true
		}
	}
	return "", "", false
}

// VisualPrompt returns the image prompt, falling back to def.
func (c *JobConfig) VisualPrompt(def string) string {
	if c.Vision != "" {
		return c.Vision
	}
	return def
}
