package style

import (
	"fmt"
	"strings"

	"github.com/heroku/color"
)

var Key = color.HiBlueString

var Symbol = func(value string) string {
	if color.Enabled() {
		return Key(value)
	}
	return "'" + value + "'"
}

// List renders names as a comma separated list of symbols.
var List = func(values []string) string {
	styled := make([]string, 0, len(values))
	for _, v := range values {
		styled = append(styled, Symbol(v))
	}
	return strings.Join(styled, ", ")
}

var Warn = color.New(color.FgYellow, color.Bold).SprintfFunc()

var Error = color.New(color.FgRed, color.Bold).SprintfFunc()

var Step = func(format string, a ...interface{}) string {
	return color.CyanString("===> "+format, a...)
}

var Prefix = color.CyanString

var Timestamp = color.HiBlackString

var Code = func(code int) string {
	return Symbol(fmt.Sprintf("%d", code))
}
