package docgeom

import (
	"bytes"
	"unicode"
)

// pageContent is the geometry recovered from one page's content stream.
type pageContent struct {
	imageBoxes []Box
	wordBoxes  []Box
	charCount  int
}

// matrix is a PDF transformation matrix [a b c d e f].
type matrix [6]float64

var identityMatrix = matrix{1, 0, 0, 1, 0, 0}

// mul returns m composed with n: points are transformed by m first, then n.
func (m matrix) mul(n matrix) matrix {
	return matrix{
		m[0]*n[0] + m[1]*n[2],
		m[0]*n[1] + m[1]*n[3],
		m[2]*n[0] + m[3]*n[2],
		m[2]*n[1] + m[3]*n[3],
		m[4]*n[0] + m[5]*n[2] + n[4],
		m[4]*n[1] + m[5]*n[3] + n[5],
	}
}

func (m matrix) apply(x, y float64) (float64, float64) {
	return x*m[0] + y*m[2] + m[4], x*m[1] + y*m[3] + m[5]
}

// boxFromCorners transforms an axis-aligned box through m and returns the
// bounding box of the result.
func boxFromCorners(m matrix, x0, y0, x1, y1 float64) Box {
	xs := [4]float64{}
	ys := [4]float64{}
	xs[0], ys[0] = m.apply(x0, y0)
	xs[1], ys[1] = m.apply(x1, y0)
	xs[2], ys[2] = m.apply(x0, y1)
	xs[3], ys[3] = m.apply(x1, y1)

	b := Box{X0: xs[0], Y0: ys[0], X1: xs[0], Y1: ys[0]}
	for i := 1; i < 4; i++ {
		if xs[i] < b.X0 {
			b.X0 = xs[i]
		}
		if xs[i] > b.X1 {
			b.X1 = xs[i]
		}
		if ys[i] < b.Y0 {
			b.Y0 = ys[i]
		}
		if ys[i] > b.Y1 {
			b.Y1 = ys[i]
		}
	}
	return b
}

// operand is a parsed content-stream value preceding an operator.
type operand struct {
	kind byte // 'n' number, '/' name, 's' string, '[' array
	num  float64
	name string
	str  string
	arr  []operand
}

// glyphWidthFactor estimates glyph advance as a fraction of the font size.
// Content streams carry no font metrics once fonts are stripped to names,
// so word boxes are an approximation.
const glyphWidthFactor = 0.5

// contentParser walks a page content stream and accumulates image placement
// boxes and approximate word boxes. It tracks the graphics state stack (q/Q),
// the current transformation matrix (cm) and the text state (BT/ET, Tf,
// Td/TD/Tm/T*, Tj/TJ/'/").
type contentParser struct {
	ctm        matrix
	gsStack    []matrix
	lineMatrix matrix
	textMatrix matrix
	fontSize   float64
	leading    float64
	advance    float64
	inText     bool
	trackImage bool

	out pageContent
}

// parseContent extracts geometry from a decoded content stream.
// countImages toggles whether XObject paints (Do) are recorded as image
// placements; pages without image objects pass false so form XObjects are
// not miscounted.
func parseContent(data []byte, countImages bool) pageContent {
	p := &contentParser{
		ctm:        identityMatrix,
		lineMatrix: identityMatrix,
		textMatrix: identityMatrix,
		fontSize:   12,
		trackImage: countImages,
	}
	p.run(data)
	return p.out
}

func (p *contentParser) run(data []byte) {
	var stack []operand
	pos := 0
	for pos < len(data) {
		tok, kind, next := nextToken(data, pos)
		pos = next
		switch kind {
		case tokenNone:
			return
		case tokenNumber:
			stack = append(stack, operand{kind: 'n', num: tok.num})
		case tokenName:
			stack = append(stack, operand{kind: '/', name: tok.name})
		case tokenString:
			stack = append(stack, operand{kind: 's', str: tok.str})
		case tokenArray:
			stack = append(stack, operand{kind: '[', arr: tok.arr})
		case tokenOperator:
			if tok.op == "BI" {
				// Inline image: skip to the EI terminator.
				pos = skipInlineImage(data, pos)
				if p.trackImage {
					p.out.imageBoxes = append(p.out.imageBoxes,
						boxFromCorners(p.ctm, 0, 0, 1, 1))
				}
				stack = stack[:0]
				continue
			}
			p.exec(tok.op, stack)
			stack = stack[:0]
		}
	}
}

func (p *contentParser) exec(op string, args []operand) {
	switch op {
	case "q":
		p.gsStack = append(p.gsStack, p.ctm)
	case "Q":
		if n := len(p.gsStack); n > 0 {
			p.ctm = p.gsStack[n-1]
			p.gsStack = p.gsStack[:n-1]
		}
	case "cm":
		if m, ok := matrixArgs(args); ok {
			p.ctm = m.mul(p.ctm)
		}
	case "Do":
		if p.trackImage {
			// XObjects paint into the unit square under the CTM.
			p.out.imageBoxes = append(p.out.imageBoxes,
				boxFromCorners(p.ctm, 0, 0, 1, 1))
		}
	case "BT":
		p.inText = true
		p.lineMatrix = identityMatrix
		p.textMatrix = identityMatrix
		p.advance = 0
	case "ET":
		p.inText = false
	case "Tf":
		if len(args) >= 2 && args[len(args)-1].kind == 'n' {
			p.fontSize = args[len(args)-1].num
		}
	case "TL":
		if len(args) >= 1 && args[len(args)-1].kind == 'n' {
			p.leading = args[len(args)-1].num
		}
	case "Td":
		if len(args) >= 2 {
			p.moveLine(args[len(args)-2].num, args[len(args)-1].num)
		}
	case "TD":
		if len(args) >= 2 {
			p.leading = -args[len(args)-1].num
			p.moveLine(args[len(args)-2].num, args[len(args)-1].num)
		}
	case "Tm":
		if m, ok := matrixArgs(args); ok {
			p.lineMatrix = m
			p.textMatrix = m
			p.advance = 0
		}
	case "T*":
		p.nextLine()
	case "Tj":
		if len(args) >= 1 && args[len(args)-1].kind == 's' {
			p.showText(args[len(args)-1].str)
		}
	case "'":
		if len(args) >= 1 && args[len(args)-1].kind == 's' {
			p.nextLine()
			p.showText(args[len(args)-1].str)
		}
	case "\"":
		if len(args) >= 1 && args[len(args)-1].kind == 's' {
			p.nextLine()
			p.showText(args[len(args)-1].str)
		}
	case "TJ":
		if len(args) >= 1 && args[len(args)-1].kind == '[' {
			for _, el := range args[len(args)-1].arr {
				switch el.kind {
				case 's':
					p.showText(el.str)
				case 'n':
					// Kerning adjustment, expressed in thousandths.
					p.advance -= el.num / 1000 * p.fontSize
				}
			}
		}
	}
}

func (p *contentParser) moveLine(tx, ty float64) {
	p.lineMatrix = matrix{1, 0, 0, 1, tx, ty}.mul(p.lineMatrix)
	p.textMatrix = p.lineMatrix
	p.advance = 0
}

func (p *contentParser) nextLine() {
	lead := p.leading
	if lead == 0 {
		lead = p.fontSize
	}
	p.moveLine(0, -lead)
}

// showText records glyph counts and approximate word boxes for one shown
// string at the current text position.
func (p *contentParser) showText(s string) {
	if !p.inText || s == "" {
		return
	}

	for _, r := range s {
		if !unicode.IsSpace(r) {
			p.out.charCount++
		}
	}

	trm := p.textMatrix.mul(p.ctm)
	glyphW := glyphWidthFactor * p.fontSize
	x := p.advance
	runStart := -1.0
	flush := func(end float64) {
		if runStart < 0 {
			return
		}
		p.out.wordBoxes = append(p.out.wordBoxes,
			boxFromCorners(trm, runStart, 0, end, p.fontSize))
		runStart = -1
	}
	for _, r := range s {
		if unicode.IsSpace(r) {
			flush(x)
		} else if runStart < 0 {
			runStart = x
		}
		x += glyphW
	}
	flush(x)
	p.advance = x
}

func matrixArgs(args []operand) (matrix, bool) {
	if len(args) < 6 {
		return identityMatrix, false
	}
	var m matrix
	for i := 0; i < 6; i++ {
		a := args[len(args)-6+i]
		if a.kind != 'n' {
			return identityMatrix, false
		}
		m[i] = a.num
	}
	return m, true
}

// Tokenizer

type tokenKind int

const (
	tokenNone tokenKind = iota
	tokenNumber
	tokenName
	tokenString
	tokenArray
	tokenOperator
)

type token struct {
	num  float64
	name string
	str  string
	arr  []operand
	op   string
}

func isDelimiter(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func isWhitespace(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '\f', 0:
		return true
	}
	return false
}

func nextToken(data []byte, pos int) (token, tokenKind, int) {
	for pos < len(data) && isWhitespace(data[pos]) {
		pos++
	}
	if pos >= len(data) {
		return token{}, tokenNone, pos
	}

	switch c := data[pos]; {
	case c == '%':
		nl := bytes.IndexByte(data[pos:], '\n')
		if nl < 0 {
			return token{}, tokenNone, len(data)
		}
		return nextToken(data, pos+nl+1)
	case c == '(':
		s, next := readLiteralString(data, pos+1)
		return token{str: s}, tokenString, next
	case c == '<' && pos+1 < len(data) && data[pos+1] == '<':
		// Dictionary (e.g. BDC property lists); skip to the matching close.
		return nextToken(data, skipDict(data, pos+2))
	case c == '<':
		s, next := readHexString(data, pos+1)
		return token{str: s}, tokenString, next
	case c == '[':
		arr, next := readArray(data, pos+1)
		return token{arr: arr}, tokenArray, next
	case c == ']' || c == '>' || c == '{' || c == '}':
		return nextToken(data, pos+1)
	case c == '/':
		end := pos + 1
		for end < len(data) && !isWhitespace(data[end]) && !isDelimiter(data[end]) {
			end++
		}
		return token{name: string(data[pos+1 : end])}, tokenName, end
	case c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9'):
		end := pos
		for end < len(data) && !isWhitespace(data[end]) && !isDelimiter(data[end]) {
			end++
		}
		if n, ok := parseNumber(data[pos:end]); ok {
			return token{num: n}, tokenNumber, end
		}
		return token{op: string(data[pos:end])}, tokenOperator, end
	default:
		end := pos
		for end < len(data) && !isWhitespace(data[end]) && !isDelimiter(data[end]) {
			end++
		}
		return token{op: string(data[pos:end])}, tokenOperator, end
	}
}

func readArray(data []byte, pos int) ([]operand, int) {
	var arr []operand
	for pos < len(data) {
		for pos < len(data) && isWhitespace(data[pos]) {
			pos++
		}
		if pos >= len(data) || data[pos] == ']' {
			return arr, pos + 1
		}
		tok, kind, next := nextToken(data, pos)
		pos = next
		switch kind {
		case tokenNone:
			return arr, pos
		case tokenNumber:
			arr = append(arr, operand{kind: 'n', num: tok.num})
		case tokenName:
			arr = append(arr, operand{kind: '/', name: tok.name})
		case tokenString:
			arr = append(arr, operand{kind: 's', str: tok.str})
		}
	}
	return arr, pos
}

// readLiteralString decodes a parenthesised string with standard escape
// sequences and balanced nested parentheses.
func readLiteralString(data []byte, pos int) (string, int) {
	var sb []byte
	depth := 1
	for pos < len(data) {
		c := data[pos]
		switch {
		case c == '\\' && pos+1 < len(data):
			pos++
			switch e := data[pos]; e {
			case 'n':
				sb = append(sb, '\n')
			case 'r':
				sb = append(sb, '\r')
			case 't':
				sb = append(sb, '\t')
			case 'b', 'f':
				sb = append(sb, ' ')
			case '(', ')', '\\':
				sb = append(sb, e)
			default:
				if e >= '0' && e <= '7' {
					val := int(e - '0')
					for k := 0; k < 2 && pos+1 < len(data) && data[pos+1] >= '0' && data[pos+1] <= '7'; k++ {
						pos++
						val = val*8 + int(data[pos]-'0')
					}
					sb = append(sb, byte(val))
				} else {
					sb = append(sb, e)
				}
			}
			pos++
		case c == '(':
			depth++
			sb = append(sb, c)
			pos++
		case c == ')':
			depth--
			if depth == 0 {
				return string(sb), pos + 1
			}
			sb = append(sb, c)
			pos++
		default:
			sb = append(sb, c)
			pos++
		}
	}
	return string(sb), pos
}

func readHexString(data []byte, pos int) (string, int) {
	var sb []byte
	var hi byte
	have := false
	for pos < len(data) && data[pos] != '>' {
		v, ok := hexVal(data[pos])
		pos++
		if !ok {
			continue
		}
		if have {
			sb = append(sb, hi<<4|v)
			have = false
		} else {
			hi = v
			have = true
		}
	}
	if have {
		sb = append(sb, hi<<4)
	}
	return string(sb), pos + 1
}

func hexVal(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

func skipDict(data []byte, pos int) int {
	depth := 1
	for pos+1 < len(data) {
		if data[pos] == '<' && data[pos+1] == '<' {
			depth++
			pos += 2
			continue
		}
		if data[pos] == '>' && data[pos+1] == '>' {
			depth--
			pos += 2
			if depth == 0 {
				return pos
			}
			continue
		}
		pos++
	}
	return len(data)
}

func skipInlineImage(data []byte, pos int) int {
	for pos+1 < len(data) {
		if data[pos] == 'E' && data[pos+1] == 'I' &&
			(pos == 0 || isWhitespace(data[pos-1])) &&
			(pos+2 >= len(data) || isWhitespace(data[pos+2])) {
			return pos + 2
		}
		pos++
	}
	return len(data)
}

func parseNumber(b []byte) (float64, bool) {
	var n float64
	var frac float64
	neg := false
	afterDot := false
	seen := false
	for i, c := range b {
		switch {
		case c == '+' && i == 0:
		case c == '-' && i == 0:
			neg = true
		case c == '.':
			if afterDot {
				return 0, false
			}
			afterDot = true
			frac = 0.1
		case c >= '0' && c <= '9':
			seen = true
			if afterDot {
				n += float64(c-'0') * frac
				frac /= 10
			} else {
				n = n*10 + float64(c-'0')
			}
		default:
			return 0, false
		}
	}
	if !seen {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}
