// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package status

import (
	"fmt"
	"path/filepath"
)

// 📝 FormatEntry formats a per-file entry for human-readable output.
func FormatEntry(e Entry) string {
	name := filepath.Base(e.Source)
	switch e.Outcome {
	case OutcomeCopied:
		if e.Renamed {
			return fmt.Sprintf("copied %s as %s", name, filepath.Base(e.Dest))
		}
		return fmt.Sprintf("copied %s", name)
	case OutcomeDuplicate:
		if e.DuplicateOf != "" {
			return fmt.Sprintf("skipped %s, duplicate content of %s", name, filepath.Base(e.DuplicateOf))
		}
		return fmt.Sprintf("skipped %s, duplicate content", name)
	case OutcomeExistingIdentical:
		return fmt.Sprintf("skipped %s, identical file already at destination", name)
	case OutcomeFailed:
		return fmt.Sprintf("failed %s: %v", name, e.Err)
	default:
		return name
	}
}

// 📝 FormatProgress formats a progress message with percentage.
func FormatProgress(current, total int) string {
	var percentage float64
	if total == 0 {
		percentage = 0
		if current > 0 {
			percentage = 100
		}
	} else {
		percentage = float64(current) / float64(total) * 100
	}

	return fmt.Sprintf("progress: %d/%d (%.0f%%)", current, total, percentage)
}
