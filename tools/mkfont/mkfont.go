package main

import (
	"bufio"
	"bytes"
	"errors"
	"flag"
	"fmt"
	"go/parser"
	"go/printer"
	"go/token"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// The number of glyphs a font atlas must define.
const numGlyphs = 128

func exit(err error) {
	fmt.Fprintf(os.Stderr, "[mkfont] error: %s\n", err.Error())
	os.Exit(1)
}

// atlas contains the parsed contents of a glyph atlas file.
type atlas struct {
	width, height int
	data          []byte
}

// parseAtlas reads a text glyph atlas. The file declares the glyph geometry
// via "width N" and "height N" directives and then defines each glyph as a
// "glyph 0xNN" header followed by height rows of width cells where '#' marks
// a lit pixel and '.' an unlit one. Lines starting with '#' before the first
// glyph block and blank lines are ignored.
func parseAtlas(path string) (*atlas, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var (
		a        atlas
		glyph    = -1
		rowsSeen int
		scanner  = bufio.NewScanner(f)
		lineNum  int
	)

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "":
			continue
		case glyph == -1 && strings.HasPrefix(line, "#"):
			continue
		case strings.HasPrefix(line, "width "):
			if a.width, err = strconv.Atoi(strings.TrimPrefix(line, "width ")); err != nil {
				return nil, fmt.Errorf("line %d: malformed width directive", lineNum)
			}
		case strings.HasPrefix(line, "height "):
			if a.height, err = strconv.Atoi(strings.TrimPrefix(line, "height ")); err != nil {
				return nil, fmt.Errorf("line %d: malformed height directive", lineNum)
			}
		case strings.HasPrefix(line, "glyph "):
			if glyph >= 0 && rowsSeen != a.height {
				return nil, fmt.Errorf("line %d: glyph 0x%02x defines %d rows; expected %d", lineNum, glyph, rowsSeen, a.height)
			}

			index, err := strconv.ParseUint(strings.TrimPrefix(line, "glyph "), 0, 8)
			if err != nil || int(index) != glyph+1 {
				return nil, fmt.Errorf("line %d: glyph blocks must appear in ascending order starting at 0x00", lineNum)
			}
			glyph, rowsSeen = int(index), 0
		default:
			if glyph == -1 {
				return nil, fmt.Errorf("line %d: glyph row outside a glyph block", lineNum)
			}
			if a.width == 0 || a.height == 0 || a.width > 8 {
				return nil, errors.New("width and height directives (width <= 8) must precede the first glyph block")
			}
			if len(line) != a.width {
				return nil, fmt.Errorf("line %d: glyph row width is %d; expected %d", lineNum, len(line), a.width)
			}

			var packed byte
			for col, cell := range line {
				switch cell {
				case '#':
					packed |= 0x80 >> uint(col)
				case '.':
				default:
					return nil, fmt.Errorf("line %d: invalid cell %q; expected '#' or '.'", lineNum, cell)
				}
			}
			a.data = append(a.data, packed)
			rowsSeen++
		}
	}
	if err = scanner.Err(); err != nil {
		return nil, err
	}

	if exp := numGlyphs * a.height; len(a.data) != exp {
		return nil, fmt.Errorf("atlas defines %d glyph rows; expected %d (%d glyphs)", len(a.data), exp, numGlyphs)
	}

	return &a, nil
}

func genFontFile(a *atlas, atlasPath string, recWidth, recHeight, priority uint) string {
	var (
		buf      bytes.Buffer
		fontName = fmt.Sprintf("%dx%d", a.width, a.height)
	)

	fmt.Fprintf(&buf, "// Code generated by mkfont from %s; DO NOT EDIT.\n\n", filepath.ToSlash(atlasPath))
	fmt.Fprintf(&buf, `package font

var font%dx%d = Font{
Name: %q,
GlyphWidth: %d,
GlyphHeight: %d,
RecommendedWidth: %d,
RecommendedHeight: %d,
Priority: %d,
BytesPerRow: 1,
`, a.width, a.height, fontName, a.width, a.height, recWidth, recHeight, priority)

	fmt.Fprint(&buf, "Data: []byte{\n")
	for i, b := range a.data {
		if i != 0 && i%a.height == 0 {
			buf.WriteByte('\n')
		}
		fmt.Fprintf(&buf, "0x%02x, ", b)
	}
	fmt.Fprint(&buf, "\n},\n}\n")

	fmt.Fprintf(&buf, "func init(){\navailableFonts = append(availableFonts, &font%dx%d)\n}\n", a.width, a.height)

	return buf.String()
}

func runTool() error {
	recWidth := flag.Uint("rec-width", 1024, "the framebuffer width (pixels) this font is the best fit for")
	recHeight := flag.Uint("rec-height", 768, "the framebuffer height (pixels) this font is the best fit for")
	priority := flag.Uint("priority", 0, "the font priority used to break best-fit ties (lower is better)")
	output := flag.String("out", "-", "a file to write the generated font or - to output to STDOUT")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, "mkfont: convert a text glyph atlas to a console font\n\n")
		fmt.Fprint(os.Stderr, "Usage: mkfont [options] atlas-file\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		exit(errors.New("missing atlas file argument"))
	}

	a, err := parseAtlas(flag.Arg(0))
	if err != nil {
		return err
	}

	fontData := genFontFile(a, flag.Arg(0), *recWidth, *recHeight, *priority)

	// Pretty-print generated file using go/printer
	fSet := token.NewFileSet()
	astFile, err := parser.ParseFile(fSet, "", fontData, parser.ParseComments)
	if err != nil {
		return err
	}

	switch *output {
	case "-":
		printer.Fprint(os.Stdout, fSet, astFile)
	default:
		fOut, err := os.Create(*output)
		if err != nil {
			return err
		}
		defer fOut.Close()

		printer.Fprint(fOut, fSet, astFile)
	}

	return nil
}

func main() {
	if err := runTool(); err != nil {
		exit(err)
	}
}
