package utils

import (
	"math/rand"
	"strconv"
)

// GenerateVerificationCode draws a uniform integer in [100000, 999999] and
// stringifies it. The range floor keeps the code at exactly six digits with
// no leading zeros.
func GenerateVerificationCode() string {
	return strconv.Itoa(100000 + rand.Intn(900000))
}
