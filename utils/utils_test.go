// Copyright 2025 Blink Labs Software
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

package utils_test

import (
	"sync"
	"testing"

	"github.com/blinklabs-io/gostardust/utils"
	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestDoneSignalCloseOnce(t *testing.T) {
	defer goleak.VerifyNone(t)
	sig := utils.NewDoneSignal()
	assert.False(t, sig.IsClosed())
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sig.Close()
		}()
	}
	wg.Wait()
	assert.True(t, sig.IsClosed())
	select {
	case <-sig.GetCh():
	default:
		t.Fatalf("channel was not closed")
	}
}
