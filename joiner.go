// FILE: lixenwraith/setting/joiner.go
package setting

import "strings"

// Separator is placed between a group and a setting name by JoinName.
const Separator = "."

// JoinFunc composes a group prefix and a setting name into one lookup key.
type JoinFunc func(group, name string) string

// JoinName is the default JoinFunc.
// An empty or all-whitespace group yields name unchanged, otherwise group + "." + name.
func JoinName(group, name string) string {
	if strings.TrimSpace(group) == "" {
		return name
	}
	return group + Separator + name
}
