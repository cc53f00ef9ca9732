package utils

import "strings"

func MaskPhone(phone string) string {
	if len(phone) < 4 {
		return phone
	}

	return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
}
