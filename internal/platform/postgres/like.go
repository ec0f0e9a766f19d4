// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package postgres

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern turns user input into an ILIKE pattern matching it as a
// literal substring. Queries must bind it with ESCAPE '\'.
func ContainsPattern(input string) string {
	return "%" + likeEscaper.Replace(input) + "%"
}
