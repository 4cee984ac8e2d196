package file_collector

import (
	"bytes"
	"os"
)

const (
	DefaultMaxTextFileSize       int64   = 1024 * 1024
	DefaultSampleSize                    = 1024
	DefaultNonPrintableThreshold float64 = 0.3
)

// Classifier decides whether a file is text that may be added to a session.
type Classifier struct {
	MaxFileSize int64
	SampleSize  int
	Threshold   float64
}

// NewClassifier returns a classifier with the default limits.
func NewClassifier() *Classifier {
	return &Classifier{
		MaxFileSize: DefaultMaxTextFileSize,
		SampleSize:  DefaultSampleSize,
		Threshold:   DefaultNonPrintableThreshold,
	}
}

// IsTextLike classifies the file at path. Any I/O error classifies it as binary.
func (c *Classifier) IsTextLike(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	if info.Size() > c.MaxFileSize {
		return false
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return c.IsTextContent(content)
}

// IsTextContent applies the null byte and printable ratio checks to content.
// An empty sample divides zero by zero and is never text.
func (c *Classifier) IsTextContent(content []byte) bool {
	if bytes.IndexByte(content, 0) >= 0 {
		return false
	}

	sampleSize := min(len(content), c.SampleSize)
	if sampleSize == 0 {
		return false
	}

	nonPrintable := 0
	for _, b := range content[:sampleSize] {
		if !isPrintable(b) {
			nonPrintable++
		}
	}

	return float64(nonPrintable)/float64(sampleSize) < c.Threshold
}

func isPrintable(b byte) bool {
	return (b >= 32 && b <= 126) || b == '\t' || b == '\n' || b == '\r'
}
