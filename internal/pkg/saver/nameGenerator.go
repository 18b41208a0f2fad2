package saver

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

//NewStagingName makes a collision resistant file name base.
//Several jobs write to the staging area concurrently, so the name
//carries the current time and a random suffix
func NewStagingName() string {
	return fmt.Sprintf("%d_%s", time.Now().UnixNano(),
		strings.SplitN(uuid.New().String(), "-", 2)[0])
}
