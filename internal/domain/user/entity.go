package user

import (
	"bytes"
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Default values applied when a user is created from a partial payload
const (
	DefaultUsername = "unknown"
	DefaultAge      = 0
)

// knownFields are the JSON keys mapped onto typed User fields.
// Everything else is carried in Extra.
var knownFields = map[string]struct{}{
	"id":       {},
	"username": {},
	"email":    {},
	"state":    {},
	"country":  {},
	"age":      {},
}

// User represents a user record in the directory
type User struct {
	ID       string
	Username string
	Email    string
	State    string
	Country  string
	Age      int

	// Extra holds fields without a typed counterpart, kept verbatim
	Extra map[string]json.RawMessage
}

// Clone returns a copy that shares no mutable state with u
func (u User) Clone() User {
	u.Extra = cloneExtra(u.Extra)
	return u
}

// MarshalJSON writes the typed fields first, then Extra in key order
func (u User) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	fields := []struct {
		key   string
		value any
	}{
		{"id", u.ID},
		{"username", u.Username},
		{"email", u.Email},
		{"state", u.State},
		{"country", u.Country},
		{"age", u.Age},
	}
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeMember(&buf, f.key, f.value); err != nil {
			return nil, err
		}
	}

	for _, key := range extraKeys(u.Extra) {
		buf.WriteByte(',')
		if err := writeMember(&buf, key, u.Extra[key]); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a user object, coercing mistyped known fields
// to their zero value instead of failing.
func (u *User) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*u = User{
		ID:       coerceString(raw["id"]),
		Username: coerceString(raw["username"]),
		Email:    coerceString(raw["email"]),
		State:    coerceString(raw["state"]),
		Country:  coerceString(raw["country"]),
		Age:      coerceAge(raw["age"]),
		Extra:    collectExtra(raw),
	}
	return nil
}

// Patch is a partial user payload used by create and update.
// A nil field is absent; an id is never part of a patch.
type Patch struct {
	Username *string
	Email    *string
	State    *string
	Country  *string
	Age      *int
	Extra    map[string]json.RawMessage
}

// UnmarshalJSON decodes a partial user object. Known keys set to null are
// treated as absent and an "id" key is dropped.
func (p *Patch) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*p = Patch{
		Username: optionalString(raw["username"]),
		Email:    optionalString(raw["email"]),
		State:    optionalString(raw["state"]),
		Country:  optionalString(raw["country"]),
		Extra:    collectExtra(raw),
	}
	if isPresent(raw["age"]) {
		age := coerceAge(raw["age"])
		p.Age = &age
	}
	return nil
}

// NewFromPatch builds a new user with the given id, falling back to the
// defaults for any missing or empty field.
func NewFromPatch(id string, p Patch) User {
	u := User{
		ID:       id,
		Username: valueOr(p.Username, ""),
		Email:    valueOr(p.Email, ""),
		State:    valueOr(p.State, ""),
		Country:  valueOr(p.Country, ""),
		Age:      DefaultAge,
		Extra:    cloneExtra(p.Extra),
	}
	if u.Username == "" {
		u.Username = DefaultUsername
	}
	if p.Age != nil {
		u.Age = *p.Age
	}
	return u
}

// Apply overlays the patch on u. Fields absent from the patch are kept.
func (p Patch) Apply(u User) User {
	out := u.Clone()
	if p.Username != nil {
		out.Username = *p.Username
	}
	if p.Email != nil {
		out.Email = *p.Email
	}
	if p.State != nil {
		out.State = *p.State
	}
	if p.Country != nil {
		out.Country = *p.Country
	}
	if p.Age != nil {
		out.Age = *p.Age
	}
	if len(p.Extra) > 0 {
		if out.Extra == nil {
			out.Extra = make(map[string]json.RawMessage, len(p.Extra))
		}
		for k, v := range p.Extra {
			out.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return out
}

// IsEmpty reports whether the patch carries no field at all
func (p Patch) IsEmpty() bool {
	return p.Username == nil && p.Email == nil && p.State == nil &&
		p.Country == nil && p.Age == nil && len(p.Extra) == 0
}

func writeMember(buf *bytes.Buffer, key string, value any) error {
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	v, err := json.Marshal(value)
	if err != nil {
		return err
	}
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(v)
	return nil
}

func extraKeys(extra map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(extra))
	for k := range extra {
		if _, known := knownFields[k]; known {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func collectExtra(raw map[string]json.RawMessage) map[string]json.RawMessage {
	var into map[string]json.RawMessage
	for k, v := range raw {
		if _, known := knownFields[k]; known {
			continue
		}
		if into == nil {
			into = make(map[string]json.RawMessage)
		}
		into[k] = v
	}
	return into
}

func cloneExtra(extra map[string]json.RawMessage) map[string]json.RawMessage {
	if extra == nil {
		return nil
	}
	out := make(map[string]json.RawMessage, len(extra))
	for k, v := range extra {
		out[k] = append(json.RawMessage(nil), v...)
	}
	return out
}

func isPresent(raw json.RawMessage) bool {
	return len(raw) > 0 && !bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func coerceString(raw json.RawMessage) string {
	if !isPresent(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func optionalString(raw json.RawMessage) *string {
	if !isPresent(raw) {
		return nil
	}
	s := coerceString(raw)
	return &s
}

// coerceAge accepts JSON numbers and numeric strings; anything else is 0
func coerceAge(raw json.RawMessage) int {
	if !isPresent(raw) {
		return DefaultAge
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return AgeFromFloat(n)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return AgeFromFloat(f)
		}
	}
	return DefaultAge
}

// AgeFromFloat truncates f toward zero. NaN, infinities and values outside
// the int range yield DefaultAge.
func AgeFromFloat(f float64) int {
	if math.IsNaN(f) || f >= math.MaxInt || f < math.MinInt {
		return DefaultAge
	}
	return int(f)
}

func valueOr(p *string, fallback string) string {
	if p == nil {
		return fallback
	}
	return *p
}

// StringPtr is a helper for building patches
func StringPtr(s string) *string {
	return &s
}

// IntPtr is a helper for building patches
func IntPtr(i int) *int {
	return &i
}
