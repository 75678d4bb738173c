// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package protox contains utilities for working with protobufs, notably
// packing arbitrary messages into self-describing Any blobs.
package protox

import (
	"github.com/flowline-io/flowline/internal/errors"
	"google.golang.org/protobuf/proto"
	anypb "google.golang.org/protobuf/types/known/anypb"
	wrapperspb "google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	bytesValueTypeURL = "type.googleapis.com/google.protobuf.BytesValue"
)

// Unpack decodes a proto of the given type url.
func Unpack(data *anypb.Any, url string, ret proto.Message) error {
	if data.TypeUrl != url {
		return errors.Errorf("bad type: %v, want %v", data.TypeUrl, url)
	}
	return proto.Unmarshal(data.Value, ret)
}

// UnpackBytes removes the BytesValue wrapper.
func UnpackBytes(data *anypb.Any) ([]byte, error) {
	if data.TypeUrl != bytesValueTypeURL {
		return nil, errors.Errorf("bad type: %v, want %v", data.TypeUrl, bytesValueTypeURL)
	}

	var buf wrapperspb.BytesValue
	if err := proto.Unmarshal(data.Value, &buf); err != nil {
		return nil, errors.Wrap(err, "BytesValue unmarshal failed")
	}
	return buf.Value, nil
}

// PackBytes applies a BytesValue wrapper to the supplied bytes.
func PackBytes(in []byte) (*anypb.Any, error) {
	buf := &wrapperspb.BytesValue{Value: in}
	b, err := proto.Marshal(buf)
	if err != nil {
		return nil, err
	}

	return &anypb.Any{TypeUrl: bytesValueTypeURL, Value: b}, nil
}

// EncodeAnyBytes serializes a message as a self-describing Any blob. A
// message that already is an Any is serialized directly, so that decoding
// a blob and re-encoding the result yields identical bytes.
func EncodeAnyBytes(msg proto.Message) ([]byte, error) {
	a, ok := msg.(*anypb.Any)
	if !ok {
		var err error
		a, err = anypb.New(msg)
		if err != nil {
			return nil, errors.Wrap(err, "Any packing failed")
		}
	}
	return proto.Marshal(a)
}

// DecodeAnyBytes deserializes a self-describing Any blob produced by
// EncodeAnyBytes.
func DecodeAnyBytes(data []byte) (*anypb.Any, error) {
	var a anypb.Any
	if err := proto.Unmarshal(data, &a); err != nil {
		return nil, errors.Wrap(err, "Any unmarshal failed")
	}
	return &a, nil
}

// MustEncode encodes a proto and panics on failure.
func MustEncode(msg proto.Message) []byte {
	data, err := proto.Marshal(msg)
	if err != nil {
		panic(err)
	}
	return data
}
