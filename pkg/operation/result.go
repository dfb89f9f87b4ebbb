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

package operation

import (
	"time"

	"github.com/walteh/harvest/pkg/status"
)

// 🏁 RunStatus is the aggregate terminal status of a run.
type RunStatus int

const (
	StatusCompleted RunStatus = iota
	StatusCompletedWithFailures
	StatusCancelled
	StatusAbortedByConfiguration
)

// String returns a string representation of RunStatus.
func (s RunStatus) String() string {
	switch s {
	case StatusCompleted:
		return "completed"
	case StatusCompletedWithFailures:
		return "completed-with-failures"
	case StatusCancelled:
		return "cancelled"
	case StatusAbortedByConfiguration:
		return "aborted-by-configuration"
	default:
		return "unknown"
	}
}

// 📊 Result aggregates the outcome of one run. Entries hold the per-file log
// in emission order.
type Result struct {
	RunID      string
	Status     RunStatus
	Matched    int // accepted by the matcher, before dedup
	Copied     int
	Duplicates int // skipped, content already accepted this run
	Existing   int // skipped, identical file already at the destination
	Failed     int
	Entries    []status.Entry

	ScanDuration time.Duration
	CopyDuration time.Duration
}

// Attempted returns the number of files the copy phase acted on.
func (r *Result) Attempted() int {
	return r.Copied + r.Existing + r.Failed
}
