// Copyright 2026 The Remote UI Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// encMode encodes with Core Deterministic Encoding: sorted map keys,
// smallest integer encoding, no indefinite-length items.
var encMode cbor.EncMode

// decMode rejects trailing bytes and duplicate map keys. Unknown struct
// fields are ignored so the renderer can grow its payloads without
// breaking older consoles.
var decMode cbor.DecMode

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		DupMapKey:        cbor.DupMapKeyEnforcedAPF,
		// A full HDR frame in one row packet is millions of samples,
		// well past the library default of 128Ki elements.
		MaxArrayElements: 1 << 27,
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

// Marshal encodes v to CBOR.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes a single CBOR data item into v. Trailing bytes
// after the item are an error.
func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}

// Decode decodes payload into a fresh value of type T. Subscribers use
// it to turn a dispatched payload into their channel's domain type:
//
//	fov, err := codec.Decode[float32](payload)
func Decode[T any](payload []byte) (T, error) {
	var value T
	if len(payload) == 0 {
		return value, fmt.Errorf("decode %T: empty payload", value)
	}
	if err := decMode.Unmarshal(payload, &value); err != nil {
		return value, fmt.Errorf("decode %T: %w", value, err)
	}
	return value, nil
}

// Diagnose returns the CBOR diagnostic notation (RFC 8949 §8) for
// payload. Used when logging payloads that failed to decode.
func Diagnose(payload []byte) string {
	notation, err := cbor.Diagnose(payload)
	if err != nil {
		return fmt.Sprintf("<%d undecodable bytes>", len(payload))
	}
	return notation
}
