package store

import (
	"crypto/rand"
	"fmt"

	"benji/internal/models"
)

// codeAlphabet excludes 0/1/I/O so codes stay unambiguous when read
// aloud or typed from a printed sheet. Its length (32) divides 256, so
// reducing a random byte modulo the length is exactly uniform.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const codeMaxAttempts = 30

// AllocateCode returns a new 10-character generation code. It retries
// on collisions using the provided exists function; exhausting the
// attempt budget means the code space is effectively saturated and is
// reported as a fatal error.
func AllocateCode(exists func(string) (bool, error)) (string, error) {
	for i := 0; i < codeMaxAttempts; i++ {
		code, err := randomCode(models.CodeLength)
		if err != nil {
			return "", err
		}
		if exists == nil {
			return code, nil
		}
		ok, err := exists(code)
		if err != nil {
			return "", err
		}
		if !ok {
			return code, nil
		}
	}

	return "", fmt.Errorf("unable to allocate unique generation code after %d attempts", codeMaxAttempts)
}

func randomCode(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	out := make([]byte, length)
	for i := 0; i < length; i++ {
		out[i] = codeAlphabet[int(b[i])%len(codeAlphabet)]
	}
	return string(out), nil
}
