/* Copyright 2019 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"log"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Storage records sessions: one bucket per session, one frame per
// tick.
type Storage struct {
	Debug    bool
	filename string
	db       *bolt.DB
}

// NewStorage takes in a filename and returns a Storage object.
func NewStorage(filename string) (*Storage, error) {
	return &Storage{
		filename: filename,
	}, nil
}

// Open opens the underlying bbolt database.
func (s *Storage) Open(ctx context.Context) error {
	if s == nil {
		return nil
	}
	opts := &bolt.Options{
		Timeout: time.Second,
	}

	db, err := bolt.Open(s.filename, 0644, opts)
	if err != nil {
		return err
	}
	s.db = db
	return nil
}

// Close closes the underlying bbolt database.
func (s *Storage) Close(ctx context.Context) error {
	if s == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Storage) logf(format string, args ...interface{}) {
	if s == nil {
		return
	}
	if s.Debug {
		log.Printf("Storage "+format, args...)
	}
}

// EnsureSession makes the bucket for the given session.
func (s *Storage) EnsureSession(ctx context.Context, sid string) error {
	if s == nil {
		return nil
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(sid))
		return err
	})
}

// RemSession deletes a session's recording.
func (s *Storage) RemSession(ctx context.Context, sid string) error {
	if s == nil {
		return nil
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.DeleteBucket([]byte(sid))
	})
}

// Sessions lists the recorded session ids.
func (s *Storage) Sessions(ctx context.Context) ([]string, error) {
	if s == nil {
		return nil, nil
	}
	acc := make([]string, 0, 8)
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.ForEach(func(name []byte, b *bolt.Bucket) error {
			acc = append(acc, string(name))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return acc, nil
}

func frameKey(tick int) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(tick))
	return key
}

// RecordFrame writes one tick's frame, keyed by the tick number so a
// cursor replays in order.
func (s *Storage) RecordFrame(ctx context.Context, sid string, f *Frame) error {
	if s == nil {
		return nil
	}
	js, err := json.Marshal(f)
	if err != nil {
		return err
	}
	s.logf("RecordFrame %s tick %d", sid, f.Tick)
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(sid))
		if err != nil {
			return err
		}
		return b.Put(frameKey(f.Tick), js)
	})
}

// GetFrames returns a session's recording in tick order.
func (s *Storage) GetFrames(ctx context.Context, sid string) ([]*Frame, error) {
	if s == nil {
		return nil, nil
	}
	fs := make([]*Frame, 0, 32)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(sid))
		if b == nil {
			return nil
		}
		c := b.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var f Frame
			if err := json.Unmarshal(v, &f); err != nil {
				return err
			}
			fs = append(fs, &f)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logf("GetFrames %s found %d frames", sid, len(fs))

	if len(fs) == 0 {
		return nil, nil
	}

	return fs, nil
}
