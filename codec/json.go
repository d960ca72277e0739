package codec

import (
	"encoding/json"

	gojson "github.com/goccy/go-json"
)

// jsonCodec adapts a pair of encoding/json-compatible functions.
type jsonCodec struct {
	name      string
	marshal   func(any) ([]byte, error)
	unmarshal func([]byte, any) error
}

func (c jsonCodec) Name() string                       { return c.name }
func (c jsonCodec) Marshal(v any) ([]byte, error)      { return c.marshal(v) }
func (c jsonCodec) Unmarshal(data []byte, v any) error { return c.unmarshal(data, v) }

var (
	// JSON uses encoding/json. Its output is what other tools most likely
	// expect when they read a manifest.
	JSON Codec = jsonCodec{"json", json.Marshal, json.Unmarshal}

	// GoJSON uses github.com/goccy/go-json and produces the same bytes as
	// JSON, faster.
	GoJSON Codec = jsonCodec{"go-json", gojson.Marshal, gojson.Unmarshal}

	// Default is the codec used for newly written snapshots.
	Default = GoJSON
)
