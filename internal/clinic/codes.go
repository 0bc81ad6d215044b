package clinic

const codeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// CodeWidth is the fixed length of an appointment code.
const CodeWidth = 5

// CodeSpace is the number of distinct codes (36^5). The sequence counter
// wraps modulo this at code-generation time, so after ~60 million
// appointments codes repeat. A recycled code overwrites its code-index slot
// and remaps to the newest appointment; codes of canceled appointments are
// released, so this is accepted rather than guarded against.
const CodeSpace = 36 * 36 * 36 * 36 * 36

// CodeFor converts a sequence counter to its 5-character base-36 code,
// left-padded with '0'. Only the lowest five base-36 digits are used.
func CodeFor(counter int64) string {
	if counter < 0 {
		counter = 0
	}
	n := counter % CodeSpace
	buf := [CodeWidth]byte{'0', '0', '0', '0', '0'}
	for i := CodeWidth - 1; n > 0; i-- {
		buf[i] = codeAlphabet[n%36]
		n /= 36
	}
	return string(buf[:])
}
