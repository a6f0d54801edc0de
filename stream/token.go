package stream

import (
	"io"
)

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

// skipLine consumes bytes up to and including the next eol, or to the end of the stream.
func (c *Codec) skipLine(eol byte) error {
	for !c.s.AtEnd() {
		b, err := c.ReadByte()
		if err != nil {
			return err
		}
		if b == eol {
			return nil
		}
	}
	return nil
}

// GetToken reads the next whitespace-delimited token using the Codec's configured comment, end-of-line and length limit.
func (c *Codec) GetToken() (string, error) {
	return c.GetTokenWith(c.config.MaxToken, c.config.Comment, c.config.EndLine)
}

// GetTokenWith reads the next whitespace-delimited token.
// Leading whitespace is skipped, and a comment byte causes the rest of its line to be skipped.
// The byte ending a token is consumed. If maxLen is positive, bytes past it are consumed and dropped.
// io.EOF is returned if the stream ends before a token starts.
func (c *Codec) GetTokenWith(maxLen int, comment, eol byte) (string, error) {
	var tok []byte

	for {
		if c.s.AtEnd() {
			return "", io.EOF
		}
		b, err := c.ReadByte()
		if err != nil {
			return "", err
		}

		if b == comment {
			if err := c.skipLine(eol); err != nil {
				return "", err
			}
			continue
		}
		if isSpace(b) || b == eol {
			continue
		}

		tok = append(tok, b)
		break
	}

	for !c.s.AtEnd() {
		b, err := c.ReadByte()
		if err != nil {
			return string(tok), err
		}

		if b == comment {
			return string(tok), c.skipLine(eol)
		}
		if isSpace(b) || b == eol {
			break
		}
		if maxLen <= 0 || len(tok) < maxLen {
			tok = append(tok, b)
		}
	}

	return string(tok), nil
}

// ReadLn reads the next non-blank line using the Codec's configured comment, end-of-line and length limit.
func (c *Codec) ReadLn() (string, error) {
	return c.ReadLnWith(c.config.MaxToken, c.config.Comment, c.config.EndLine)
}

// ReadLnWith reads the next line that isn't blank or a comment.
// Leading whitespace is skipped, and the eol byte and any trailing carriage return are dropped.
// If maxLen is positive, bytes past it are consumed and dropped.
// io.EOF is returned if the stream ends before a line starts.
func (c *Codec) ReadLnWith(maxLen int, comment, eol byte) (string, error) {
	var line []byte

	for {
		if c.s.AtEnd() {
			return "", io.EOF
		}
		b, err := c.ReadByte()
		if err != nil {
			return "", err
		}

		if b == comment {
			if err := c.skipLine(eol); err != nil {
				return "", err
			}
			continue
		}
		if isSpace(b) || b == eol {
			continue
		}

		line = append(line, b)
		break
	}

	for !c.s.AtEnd() {
		b, err := c.ReadByte()
		if err != nil {
			return string(line), err
		}
		if b == eol {
			break
		}
		if maxLen <= 0 || len(line) < maxLen {
			line = append(line, b)
		}
	}

	if n := len(line); n > 0 && line[n-1] == '\r' {
		line = line[:n-1]
	}
	return string(line), nil
}
