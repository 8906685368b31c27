package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"rehab/internal/ledger"
	"rehab/internal/store"
)

// Profile is the user's display information
type Profile struct {
	DisplayName   string  `json:"displayName"`
	AvatarDataURL *string `json:"avatarDataUrl"`
}

// Name returns the display name, or AnonymousName when it is blank
func (p Profile) Name() string {
	if n := strings.TrimSpace(p.DisplayName); n != "" {
		return n
	}
	return AnonymousName
}

// loadGoal reads the persisted goal. Missing or malformed values fall back
// to def; the returned error is only for logging.
func loadGoal(kv KV, def int) (int, error) {
	raw, err := kv.GetValue(GoalKey)
	if err != nil {
		if errors.Is(err, store.ErrKeyNotFound) {
			return def, nil
		}
		return def, fmt.Errorf("reading goal: %w", err)
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return def, fmt.Errorf("parsing goal %q: %w", raw, err)
	}
	if n <= 0 {
		return def, fmt.Errorf("stored goal %d is not positive", n)
	}
	return n, nil
}

func loadProfile(kv KV) (Profile, error) {
	raw, err := kv.GetValue(ProfileKey)
	if err != nil {
		if errors.Is(err, store.ErrKeyNotFound) {
			return Profile{}, nil
		}
		return Profile{}, fmt.Errorf("reading profile: %w", err)
	}
	var p Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return Profile{}, fmt.Errorf("parsing profile: %w", err)
	}
	if p.AvatarDataURL != nil && *p.AvatarDataURL == "" {
		p.AvatarDataURL = nil
	}
	return p, nil
}

func loadPosture(kv KV) ([]string, error) {
	raw, err := kv.GetValue(PostureKey)
	if err != nil {
		if errors.Is(err, store.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading posture areas: %w", err)
	}
	var areas []string
	if err := json.Unmarshal([]byte(raw), &areas); err != nil {
		return nil, fmt.Errorf("parsing posture areas: %w", err)
	}
	return areas, nil
}

// writeJSON encodes v and stores it under key
func writeJSON(kv KV, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	return write(kv, key, string(data))
}

func write(kv KV, key, value string) error {
	if err := kv.SetValue(key, value); err != nil {
		return fmt.Errorf("%w: %s: %w", ledger.ErrStorageWrite, key, err)
	}
	return nil
}

// restore puts key back to a value read before a write. A key that did
// not exist is deleted.
func restore(kv KV, key, prev string, existed bool) error {
	if !existed {
		return kv.DeleteValue(key)
	}
	return kv.SetValue(key, prev)
}
