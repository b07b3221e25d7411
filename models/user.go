package models

import (
	"fmt"
	"strconv"
	"strings"
)

// FlexInt decodes identifiers the backend sends either as JSON numbers or as
// numeric strings.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*f = 0
		return nil
	}
	raw = strings.Trim(raw, `"`)
	if raw == "" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("invalid numeric identifier %q: %w", raw, err)
	}
	*f = FlexInt(n)
	return nil
}

type User struct {
	UserID FlexInt `json:"userId"`
	UUID   string  `json:"uuid,omitempty"`
	Name   string  `json:"name,omitempty"`
	Email  string  `json:"email,omitempty"`
	Phone  string  `json:"phone,omitempty"`
}
