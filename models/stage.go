package models

import (
	"strconv"

	"bitbucket.org/mmdatafocus/indent_tracker/sheets"
)

// stageFields gives access to the plannedN / actualN pairs every workflow sheet carries.
type stageFields struct {
	raw sheets.Row
}

func (s stageFields) Planned(n int) string {
	return s.raw.Trimmed("planned" + strconv.Itoa(n))
}

func (s stageFields) Actual(n int) string {
	return s.raw.Trimmed("actual" + strconv.Itoa(n))
}
