package service

import (
	"crypto/rand"
	"fmt"
	"time"
)

// GenerateMRNo returns a medical record number: MR-YYMMDD-XXXX
func GenerateMRNo(t time.Time) string {
	randomBytes := make([]byte, 2)
	rand.Read(randomBytes)
	return fmt.Sprintf("MR-%s-%04X", t.Format("060102"), randomBytes)
}

// GenerateBillNo returns a bill number: BL-YYYYMMDD-XXXXXX
func GenerateBillNo(t time.Time) string {
	randomBytes := make([]byte, 3)
	rand.Read(randomBytes)
	return fmt.Sprintf("BL-%s-%06X", t.Format("20060102"), randomBytes)
}
