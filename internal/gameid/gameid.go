// Package gameid generates session identifiers: UUIDv7 values encoded as
// 26-character lowercase Crockford base32, so IDs sort by creation time.
package gameid

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

// Base32 alphabet used by TypeID (Crockford's base32)
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length is the number of characters in an encoded ID
const Length = 26

// Generator creates IDs from an optional random reader
type Generator struct {
	rand io.Reader
}

// NewGenerator creates a generator. A nil reader uses crypto randomness.
func NewGenerator(rand io.Reader) *Generator {
	return &Generator{rand: rand}
}

// Generate creates a new game ID
func Generate() string {
	return NewGenerator(nil).Generate()
}

// Generate creates a new game ID using the generator's random reader
func (g *Generator) Generate() string {
	var (
		id  uuid.UUID
		err error
	)
	if g.rand != nil {
		id, err = uuid.NewV7FromReader(g.rand)
	} else {
		id, err = uuid.NewV7()
	}
	if err != nil {
		panic("failed to generate game id: " + err.Error())
	}
	return encode(id)
}

// encode writes the 128 bits as 26 groups of 5 bits, most significant first.
// The final group only has 3 real bits and is padded with zeros.
func encode(id uuid.UUID) string {
	result := make([]byte, Length)

	for i := range result {
		bitOffset := i * 5
		byteIndex := bitOffset / 8
		bitIndex := bitOffset % 8

		var value byte
		if bitIndex <= 3 {
			value = (id[byteIndex] >> (3 - bitIndex)) & 0x1f
		} else {
			value = (id[byteIndex] << (bitIndex - 3)) & 0x1f
			if byteIndex+1 < len(id) {
				value |= id[byteIndex+1] >> (11 - bitIndex)
			}
		}
		result[i] = alphabet[value]
	}

	return string(result)
}

// Validate checks if a game ID is valid (26 characters, valid base32)
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("game ID must be exactly %d characters, got %d", Length, len(id))
	}

	for i, char := range id {
		if !strings.ContainsRune(alphabet, char) {
			return fmt.Errorf("invalid character %c at position %d", char, i)
		}
	}

	// the final character carries 3 bits; its 2 padding bits are zero
	if last := strings.IndexByte(alphabet, id[Length-1]); last&0x3 != 0 {
		return fmt.Errorf("game ID last character %c has non-zero padding bits", id[Length-1])
	}

	return nil
}
