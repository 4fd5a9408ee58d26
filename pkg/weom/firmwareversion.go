// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Workswell s.r.o.

package weom

import "fmt"

// FirmwareVersion is the decoded main firmware version register.
type FirmwareVersion struct {
	Major uint8
	Minor uint8
	Patch uint16
}

// String renders the version as "major.minor.patch".
func (v FirmwareVersion) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}
