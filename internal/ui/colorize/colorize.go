// Package colorize highlights ARM disassembly for terminal output.
package colorize

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// NoColorEnv disables colouring when set to any non-empty value.
const NoColorEnv = "ROMMAP_NO_COLOR"

// Enabled reports whether colouring is on.
func Enabled() bool {
	return os.Getenv(NoColorEnv) == ""
}

// getAssemblyLexer returns an appropriate assembly lexer with fallbacks
func getAssemblyLexer() chroma.Lexer {
	for _, name := range []string{"armasm", "gas", "nasm"} {
		if lexer := lexers.Get(name); lexer != nil {
			return lexer
		}
	}
	return nil
}

func getDisasmStyle() *chroma.Style {
	for _, name := range []string{StyleName, "dracula", "monokai"} {
		if style := styles.Get(name); style != nil {
			return style
		}
	}
	return styles.Fallback
}

func getTerminalFormatter() chroma.Formatter {
	for _, name := range []string{"terminal16m", "terminal256"} {
		if formatter := formatters.Get(name); formatter != nil {
			return formatter
		}
	}
	return formatters.Fallback
}

// Assembly applies syntax highlighting to ARM assembly. On any failure the
// input is returned unchanged alongside the error.
func Assembly(code string) (string, error) {
	if !Enabled() {
		return code, nil
	}
	lexer := getAssemblyLexer()
	if lexer == nil {
		return code, nil
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code, err
	}
	var buf strings.Builder
	if err := getTerminalFormatter().Format(&buf, getDisasmStyle(), iterator); err != nil {
		return code, err
	}
	return buf.String(), nil
}

// Listing colours a preview produced by disasm.Stream.Format: the address
// column in gray and the remainder through the assembly lexer.
func Listing(listing string) string {
	if !Enabled() {
		return listing
	}
	lines := strings.SplitAfter(listing, "\n")
	var b strings.Builder
	for _, line := range lines {
		if line == "" {
			continue
		}
		addr, rest, ok := strings.Cut(line, " ")
		if !ok || !isHex(addr) {
			colored, _ := Assembly(line)
			b.WriteString(colored)
			continue
		}
		colored, _ := Assembly(rest)
		fmt.Fprintf(&b, "\033[38;2;79;79;79m%s\033[0m %s", addr, colored)
	}
	return b.String()
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if !((ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')) {
			return false
		}
	}
	return s != ""
}

// StripANSI removes ANSI escape sequences.
func StripANSI(s string) string {
	var result strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEscape = true
		case inEscape:
			if r == 'm' {
				inEscape = false
			}
		default:
			result.WriteRune(r)
		}
	}
	return result.String()
}
