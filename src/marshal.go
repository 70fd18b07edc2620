package src

import (
	"fmt"
	"strconv"
	"strings"
)

// encodeElems writes <tag><len>:<elem>,<len>:<elem>,...
func encodeElems(tag byte, elems []string) string {
	var b strings.Builder
	b.WriteByte(tag)
	for _, e := range elems {
		b.WriteString(strconv.Itoa(len(e)))
		b.WriteByte(':')
		b.WriteString(e)
		b.WriteByte(',')
	}
	return b.String()
}

// encodeHash writes H<flen>:<field>:<vlen>:<value>,...
func encodeHash(fields map[string]string) string {
	var b strings.Builder
	b.WriteByte(byte(KindHash))
	for f, v := range fields {
		b.WriteString(strconv.Itoa(len(f)))
		b.WriteByte(':')
		b.WriteString(f)
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(len(v)))
		b.WriteByte(':')
		b.WriteString(v)
		b.WriteByte(',')
	}
	return b.String()
}

// readChunk reads "<len>:<bytes>" at pos and returns the bytes and the
// position just past them.
func readChunk(data string, pos int) (string, int, error) {
	colon := strings.IndexByte(data[pos:], ':')
	if colon < 0 {
		return "", 0, fmt.Errorf("%w: missing length separator at %d", ErrMalformedRecord, pos)
	}
	colon += pos
	n, err := strconv.Atoi(data[pos:colon])
	if err != nil || n < 0 {
		return "", 0, fmt.Errorf("%w: bad length %q", ErrMalformedRecord, data[pos:colon])
	}
	start := colon + 1
	// n 可能很大, 先比较再相加避免溢出
	if n > len(data)-start {
		return "", 0, fmt.Errorf("%w: length %d overruns record", ErrMalformedRecord, n)
	}
	end := start + n
	return data[start:end], end, nil
}

func expectByte(data string, pos int, c byte) error {
	if pos >= len(data) || data[pos] != c {
		return fmt.Errorf("%w: expected %q at %d", ErrMalformedRecord, c, pos)
	}
	return nil
}

func decodeElems(tag byte, data string) ([]string, error) {
	if len(data) == 0 || data[0] != tag {
		return nil, fmt.Errorf("%w: missing %q tag", ErrMalformedRecord, tag)
	}
	elems := make([]string, 0)
	pos := 1
	for pos < len(data) {
		elem, next, err := readChunk(data, pos)
		if err != nil {
			return nil, err
		}
		if err := expectByte(data, next, ','); err != nil {
			return nil, err
		}
		elems = append(elems, elem)
		pos = next + 1
	}
	return elems, nil
}

func decodeHash(data string) (map[string]string, error) {
	if len(data) == 0 || data[0] != byte(KindHash) {
		return nil, fmt.Errorf("%w: missing 'H' tag", ErrMalformedRecord)
	}
	fields := make(map[string]string)
	pos := 1
	for pos < len(data) {
		field, next, err := readChunk(data, pos)
		if err != nil {
			return nil, err
		}
		if err := expectByte(data, next, ':'); err != nil {
			return nil, err
		}
		value, next, err := readChunk(data, next+1)
		if err != nil {
			return nil, err
		}
		if err := expectByte(data, next, ','); err != nil {
			return nil, err
		}
		fields[field] = value
		pos = next + 1
	}
	return fields, nil
}
