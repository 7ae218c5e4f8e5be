// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrEmptyRoomID is returned when a room id is blank.
var ErrEmptyRoomID = errors.New("room id is empty")

// RoomID identifies a chat room persisted by the server. Servers have been
// seen to emit both numbers and strings, so the id keeps its textual form
// and remembers whether it was numeric.
type RoomID struct {
	raw     string
	numeric bool
}

// ParseRoomID builds a RoomID from text such as a route parameter.
func ParseRoomID(s string) (RoomID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return RoomID{}, ErrEmptyRoomID
	}
	_, err := strconv.ParseInt(s, 10, 64)
	return RoomID{raw: s, numeric: err == nil}, nil
}

// MustRoomID is ParseRoomID for literals; it panics on an empty string.
func MustRoomID(s string) RoomID {
	id, err := ParseRoomID(s)
	if err != nil {
		panic(err)
	}
	return id
}

// NumericRoomID builds a RoomID from an integer.
func NumericRoomID(n int64) RoomID {
	return RoomID{raw: strconv.FormatInt(n, 10), numeric: true}
}

// String returns the id as it appears in routes and URLs.
func (r RoomID) String() string {
	return r.raw
}

// IsZero reports whether the id is unset.
func (r RoomID) IsZero() bool {
	return r.raw == ""
}

// IsNumeric reports whether the id parses as an integer.
func (r RoomID) IsNumeric() bool {
	return r.numeric
}

// Int64 returns the numeric value when the id is numeric.
func (r RoomID) Int64() (int64, bool) {
	if !r.numeric {
		return 0, false
	}
	n, err := strconv.ParseInt(r.raw, 10, 64)
	return n, err == nil
}

// WireValue returns the value to place in a JSON request body. Numeric ids
// are sent as numbers when preferNumeric is set, everything else as strings.
func (r RoomID) WireValue(preferNumeric bool) any {
	if preferNumeric {
		if n, ok := r.Int64(); ok {
			return n
		}
	}
	return r.raw
}

// MarshalJSON encodes numeric ids as numbers and the rest as strings.
func (r RoomID) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.WireValue(true))
}

// UnmarshalJSON accepts a JSON number or string.
func (r *RoomID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = RoomID{}
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("room id: %w", err)
		}
		id, err := ParseRoomID(s)
		if err != nil {
			*r = RoomID{}
			return nil
		}
		*r = id
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("room id: %w", err)
	}
	id, err := ParseRoomID(n.String())
	if err != nil {
		return fmt.Errorf("room id: %w", err)
	}
	*r = id
	return nil
}
