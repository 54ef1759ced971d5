package language

// sniffLen bounds how much of a file is inspected for NUL bytes.
const sniffLen = 8000

// IsBinaryContent reports whether data looks binary: a NUL byte within the
// first sniffLen bytes, the same heuristic git uses.
func IsBinaryContent(data []byte) bool {
	n := min(len(data), sniffLen)
	for i := 0; i < n; i++ {
		if data[i] == 0 {
			return true
		}
	}
	return false
}
