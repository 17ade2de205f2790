// Package localstore keeps notes on the local machine: a directory of
// key-value slots, each slot one file holding a serialized value.
package localstore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
)

var keyRe = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,64}$`)

// KV is a directory of named slots.
type KV struct {
	Dir string
}

func NewKV(dir string) (*KV, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create local dir: %w", err)
	}
	return &KV{Dir: dir}, nil
}

func (kv *KV) path(key string) (string, error) {
	if !keyRe.MatchString(key) {
		return "", fmt.Errorf("invalid slot key %q", key)
	}
	return filepath.Join(kv.Dir, key+".json"), nil
}

// Get returns the slot value; ok is false when the slot was never written.
func (kv *KV) Get(key string) (value []byte, ok bool, err error) {
	p, err := kv.path(key)
	if err != nil {
		return nil, false, err
	}
	b, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read slot %s: %w", key, err)
	}
	return b, true, nil
}

// Set replaces the slot value. The write goes through a temp file and a
// rename so a crash never leaves half a slot behind.
func (kv *KV) Set(key string, value []byte) error {
	p, err := kv.path(key)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(kv.Dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("write slot %s: %w", key, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return fmt.Errorf("write slot %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write slot %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return fmt.Errorf("write slot %s: %w", key, err)
	}
	return nil
}

// Delete removes the slot; deleting a missing slot is fine.
func (kv *KV) Delete(key string) error {
	p, err := kv.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete slot %s: %w", key, err)
	}
	return nil
}
