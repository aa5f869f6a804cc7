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

package gostardust

import (
	"log/slog"

	"github.com/blinklabs-io/gostardust/pow"
)

// ClientOptionFunc is a type that represents functions that modify the Client config
type ClientOptionFunc func(*Client)

// WithNetwork specifies the network that built blocks and payloads are checked against
func WithNetwork(network Network) ClientOptionFunc {
	return func(c *Client) {
		c.network = network
	}
}

// WithNodeAPI specifies the node that tips are fetched from and blocks are submitted to
func WithNodeAPI(nodeApi NodeAPI) ClientOptionFunc {
	return func(c *Client) {
		c.nodeApi = nodeApi
	}
}

// WithPowWorker specifies the worker used for block proof of work
func WithPowWorker(worker *pow.Worker) ClientOptionFunc {
	return func(c *Client) {
		c.powWorker = worker
	}
}

// WithMinPowScore overrides the network minimum PoW score. A score of 0 disables proof of work,
// which is useful for nodes that perform remote PoW
func WithMinPowScore(score float64) ClientOptionFunc {
	return func(c *Client) {
		c.minPowScore = &score
	}
}

// WithLogger specifies the logger to use
func WithLogger(logger *slog.Logger) ClientOptionFunc {
	return func(c *Client) {
		c.logger = logger
	}
}
