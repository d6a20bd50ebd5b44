package vcf

import (
	"slices"
	"strings"
)

// InfoValue is a single INFO entry value: either a string or the flag true.
type InfoValue struct {
	value string
	flag  bool
}

// Flag returns the value of a flag entry (a key without "=").
func Flag() InfoValue {
	return InfoValue{flag: true}
}

// StringValue returns a key=value entry value.
func StringValue(s string) InfoValue {
	return InfoValue{value: s}
}

// IsFlag reports whether the value is a flag.
func (v InfoValue) IsFlag() bool {
	return v.flag
}

// String returns the raw value. Flags render as "true".
func (v InfoValue) String() string {
	if v.flag {
		return "true"
	}
	return v.value
}

// InfoEntry is a single key/value pair of an INFO column.
type InfoEntry struct {
	Key   string
	Value InfoValue
}

// Info is an ordered INFO mapping. Keys are unique; overwriting a key keeps
// the position of its first insertion and new keys are appended.
type Info struct {
	entries []InfoEntry
	index   map[string]int
}

// ParseInfo splits a raw INFO column into an ordered mapping. The missing
// value "." yields an empty mapping.
func ParseInfo(raw string) *Info {
	info := &Info{index: make(map[string]int)}
	if raw == "." {
		return info
	}

	for _, entry := range strings.Split(raw, ";") {
		key, value, ok := strings.Cut(entry, "=")
		if ok {
			info.Set(key, StringValue(value))
		} else {
			info.Set(entry, Flag())
		}
	}

	return info
}

// Get returns the value for key.
func (info *Info) Get(key string) (InfoValue, bool) {
	i, ok := info.index[key]
	if !ok {
		return InfoValue{}, false
	}
	return info.entries[i].Value, true
}

// Set inserts or overwrites the value for key.
func (info *Info) Set(key string, value InfoValue) {
	if info.index == nil {
		info.index = make(map[string]int)
	}
	if i, ok := info.index[key]; ok {
		info.entries[i].Value = value
		return
	}
	info.index[key] = len(info.entries)
	info.entries = append(info.entries, InfoEntry{Key: key, Value: value})
}

// Len returns the number of entries.
func (info *Info) Len() int {
	return len(info.entries)
}

// Entries returns a copy of the entries in insertion order.
func (info *Info) Entries() []InfoEntry {
	return slices.Clone(info.entries)
}

// String re-joins the mapping: flags as bare keys, others as key=value.
func (info *Info) String() string {
	if len(info.entries) == 0 {
		return "."
	}

	var sb strings.Builder
	for i, e := range info.entries {
		if i > 0 {
			sb.WriteByte(';')
		}
		sb.WriteString(e.Key)
		if !e.Value.flag {
			sb.WriteByte('=')
			sb.WriteString(e.Value.value)
		}
	}
	return sb.String()
}
