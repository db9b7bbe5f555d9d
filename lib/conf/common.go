package conf

import (
	"bufio"
	"io"
	"os"
	"strings"
)

// ConfigReader reads a line based config file, skipping blanks and '#'
// comments.
type ConfigReader struct {
	FileName string
	file     *os.File
	reader   *bufio.Reader
	line     int
}

func NewConfigReader(filename string) (*ConfigReader, error) {
	fi, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	cr := &ConfigReader{
		FileName: filename,
		file:     fi,
		reader:   bufio.NewReader(fi),
	}
	return cr, nil
}

// ReadLine returns the next line trimmed, "" for a blank or comment line and
// io.EOF at the end of the file.
func (cr *ConfigReader) ReadLine() (string, error) {
	a, err := cr.reader.ReadString('\n')
	if err != nil && (err != io.EOF || len(a) == 0) {
		return "", err
	}
	cr.line++
	b := strings.TrimSpace(a)
	if isComment(b) {
		return "", nil
	}
	return b, nil
}

// Line is the number of the last line read.
func (cr *ConfigReader) Line() int {
	return cr.line
}

func (cr *ConfigReader) Close() error {
	return cr.file.Close()
}

func isComment(b string) bool {
	return len(b) < 1 || b[0] == '#'
}
