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

package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/pterm/pterm"
	"github.com/walteh/harvest/pkg/operation"
)

// 📊 progressSink renders run phases and a progress bar on the terminal. The
// engine calls it from the run worker, so everything is guarded.
type progressSink struct {
	mu  sync.Mutex
	bar *pterm.ProgressbarPrinter
}

func newProgressSink() *progressSink {
	return &progressSink{}
}

func (s *progressSink) OnPhase(phase operation.Phase) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch phase {
	case operation.PhaseScanning:
		pterm.Info.Println("Scanning source trees...")
	case operation.PhaseAwaitingConfirmation:
		pterm.Warning.Println("Waiting for confirmation...")
	case operation.PhaseDone:
		if s.bar != nil {
			s.bar.Stop()
			s.bar = nil
		}
	}
}

func (s *progressSink) OnProgress(current, total int, fileName string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.bar == nil {
		bar, err := pterm.DefaultProgressbar.WithTotal(total).WithTitle("copying").Start()
		if err != nil {
			return
		}
		s.bar = bar
	}
	s.bar.UpdateTitle(fileName)
	s.bar.Increment()
}

// ✋ promptConfirm asks the user whether a large copy may proceed.
func promptConfirm(ctx context.Context, matchCount int) (bool, error) {
	return pterm.DefaultInteractiveConfirm.
		WithDefaultValue(false).
		Show(fmt.Sprintf("Copy %d files?", matchCount))
}
