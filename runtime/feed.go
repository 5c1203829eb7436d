// Copyright (C) 2020-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"encoding/binary"

	"github.com/luxfi/elara/core"
)

// FeedItem is one entry of a feed-style atom: an appended or later
// tombstoned message, keyed by the MessageID its originating event
// derives so duplicate delivery across the mesh converges cleanly.
type FeedItem struct {
	ID        core.MessageID
	Author    core.NodeID
	Content   []byte
	Timestamp core.StateTime
	Deleted   bool
}

// Encode serializes item as id(8)|author(8)|timestamp(8)|deleted(1)|
// content_len(2)|content.
func (item FeedItem) Encode() []byte {
	out := make([]byte, 25+2+len(item.Content))
	binary.LittleEndian.PutUint64(out[0:8], uint64(item.ID))
	binary.LittleEndian.PutUint64(out[8:16], uint64(item.Author))
	binary.LittleEndian.PutUint64(out[16:24], uint64(item.Timestamp))
	if item.Deleted {
		out[24] = 1
	}
	binary.LittleEndian.PutUint16(out[25:27], uint16(len(item.Content)))
	copy(out[27:], item.Content)
	return out
}

// decodeFeedItem parses one FeedItem from the front of buf, returning
// the number of bytes consumed.
func decodeFeedItem(buf []byte) (FeedItem, int, bool) {
	if len(buf) < 27 {
		return FeedItem{}, 0, false
	}
	id := core.MessageID(binary.LittleEndian.Uint64(buf[0:8]))
	author := core.NodeID(binary.LittleEndian.Uint64(buf[8:16]))
	timestamp := core.StateTime(binary.LittleEndian.Uint64(buf[16:24]))
	deleted := buf[24] != 0
	contentLen := int(binary.LittleEndian.Uint16(buf[25:27]))
	if len(buf) < 27+contentLen {
		return FeedItem{}, 0, false
	}
	content := append([]byte(nil), buf[27:27+contentLen]...)
	return FeedItem{
		ID:        id,
		Author:    author,
		Content:   content,
		Timestamp: timestamp,
		Deleted:   deleted,
	}, 27 + contentLen, true
}

// FeedStream is an ordered, deduplicated projection of a feed atom's
// appended items, rebuilt fresh from the atom's raw value each query.
type FeedStream struct {
	Items []FeedItem
}

// FeedStreamFromBytes decodes a feed atom's value into its item list.
func FeedStreamFromBytes(data []byte) FeedStream {
	var stream FeedStream
	offset := 0
	for offset < len(data) {
		item, used, ok := decodeFeedItem(data[offset:])
		if !ok {
			break
		}
		stream.applyItem(item)
		offset += used
	}
	return stream
}

// applyItem inserts item, or updates the existing entry sharing its ID
// (e.g. a later delete tombstoning an earlier append).
func (s *FeedStream) applyItem(item FeedItem) {
	for i := range s.Items {
		if s.Items[i].ID == item.ID {
			s.Items[i] = item
			return
		}
	}
	s.Items = append(s.Items, item)
}
