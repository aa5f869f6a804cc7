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

package common

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/blinklabs-io/gostardust/ledger/common"
)

// ReadHexInputs decodes each argument as hex. With no arguments, it reads one hex value per line
// from stdin instead
func ReadHexInputs(args []string) ([][]byte, error) {
	if len(args) == 0 {
		var err error
		if args, err = readLines(os.Stdin); err != nil {
			return nil, err
		}
	}
	ret := make([][]byte, 0, len(args))
	for idx, arg := range args {
		arg = strings.TrimPrefix(strings.TrimSpace(arg), "0x")
		data := make([]byte, len(arg)/2)
		if err := common.DecodeHexInto(data, arg); err != nil {
			return nil, fmt.Errorf("input %d: %w", idx, err)
		}
		ret = append(ret, data)
	}
	return ret, nil
}

func readLines(r io.Reader) ([]string, error) {
	var ret []string
	scanner := bufio.NewScanner(r)
	// Blocks are at most 32KiB, which is 64KiB of hex
	scanner.Buffer(make([]byte, 0, 64*1024), 128*1024)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			ret = append(ret, line)
		}
	}
	return ret, scanner.Err()
}
