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

// Package gostardust is a client library for the Stardust tangle ledger.
//
// The ledger package holds the wire entities and their codec, builder assembles and signs
// transactions, keys derives signing keys and addresses from a seed and pow performs the proof
// of work needed to issue a block. Client ties them to a node: it fetches tips, wraps a payload
// in a block, mines its nonce and submits it through a NodeAPI.
package gostardust

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/blinklabs-io/gostardust/ledger"
	"github.com/blinklabs-io/gostardust/ledger/common"
	"github.com/blinklabs-io/gostardust/pow"
)

var (
	ErrNoNodeAPI       = errors.New("no node API configured")
	ErrNoTips          = errors.New("node returned no tips")
	ErrPowAborted      = errors.New("proof of work aborted")
	ErrNetworkMismatch = errors.New("network mismatch")
)

// NetworkMismatchError indicates that a node or payload belongs to a different network than the
// one the client was configured for
type NetworkMismatchError struct {
	Expected string
	Actual   string
}

func (e NetworkMismatchError) Error() string {
	return fmt.Sprintf("network mismatch: expected %s, got %s", e.Expected, e.Actual)
}

func (NetworkMismatchError) Is(target error) bool {
	return target == ErrNetworkMismatch
}

// NodeInfo is the subset of node information the client needs
type NodeInfo struct {
	NetworkName     string
	Bech32HRP       string
	ProtocolVersion uint8
	MinPowScore     float64
}

// NodeAPI is the transport to a node. Implementations wrap the node's HTTP API or a test double
type NodeAPI interface {
	Info(ctx context.Context) (*NodeInfo, error)
	Tips(ctx context.Context) ([]common.BlockId, error)
	SubmitBlock(ctx context.Context, block *ledger.Block) (common.BlockId, error)
}

// Client turns payloads into blocks and submits them through a NodeAPI
type Client struct {
	network     Network
	nodeApi     NodeAPI
	powWorker   *pow.Worker
	minPowScore *float64
	logger      *slog.Logger
}

// New returns a new Client object with the specified options applied
func New(options ...ClientOptionFunc) (*Client, error) {
	c := &Client{
		network: NetworkIotaMainnet,
	}
	for _, option := range options {
		option(c)
	}
	if c.nodeApi == nil {
		return nil, ErrNoNodeAPI
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.powWorker == nil {
		c.powWorker = pow.NewWorker(pow.WithLogger(c.logger))
	}
	return c, nil
}

// Network returns the network the client was configured for
func (c *Client) Network() Network {
	return c.network
}

func (c *Client) powScore() float64 {
	if c.minPowScore != nil {
		return *c.minPowScore
	}
	return c.network.MinPowScore
}

// CheckNetwork confirms that the node belongs to the configured network
func (c *Client) CheckNetwork(ctx context.Context) (*NodeInfo, error) {
	info, err := c.nodeApi.Info(ctx)
	if err != nil {
		return nil, fmt.Errorf("node info: %w", err)
	}
	if info.NetworkName != c.network.Name {
		return nil, NetworkMismatchError{
			Expected: c.network.Name,
			Actual:   info.NetworkName,
		}
	}
	if info.ProtocolVersion != c.network.ProtocolVersion {
		return nil, fmt.Errorf(
			"node protocol version %d does not match %d",
			info.ProtocolVersion,
			c.network.ProtocolVersion,
		)
	}
	return info, nil
}

// parents turns node tips into a valid parent list: sorted, unique and capped at the maximum
// parent count
func parents(tips []common.BlockId) []common.BlockId {
	ret := slices.Clone(tips)
	ledger.SortBlockIds(ret)
	ret = slices.Compact(ret)
	if len(ret) > ledger.MaxParentCount {
		ret = ret[:ledger.MaxParentCount]
	}
	return ret
}

// BuildBlock wraps payload in a block referencing the current tips and performs proof of work
// on it. The payload may be nil
func (c *Client) BuildBlock(ctx context.Context, payload ledger.Payload) (*ledger.Block, error) {
	txPayload, ok := payload.(*ledger.TransactionPayload)
	if ok && txPayload != nil && txPayload.Essence != nil {
		if txPayload.Essence.NetworkId != c.network.Id {
			return nil, NetworkMismatchError{
				Expected: c.network.Name,
				Actual:   fmt.Sprintf("network ID %d", txPayload.Essence.NetworkId),
			}
		}
	}
	tips, err := c.nodeApi.Tips(ctx)
	if err != nil {
		return nil, fmt.Errorf("node tips: %w", err)
	}
	if len(tips) == 0 {
		return nil, ErrNoTips
	}
	block := &ledger.Block{
		ProtocolVersion: c.network.ProtocolVersion,
		Parents:         parents(tips),
		Payload:         payload,
	}
	blockData, err := ledger.SerializeBlockWithoutNonce(block)
	if err != nil {
		return nil, err
	}
	score := c.powScore()
	if score <= 0 {
		return block, nil
	}
	result, err := pow.DoBlockPow(ctx, c.powWorker, blockData, score)
	if err != nil {
		return nil, err
	}
	if !result.Found {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrPowAborted, ctxErr)
		}
		return nil, ErrPowAborted
	}
	block.Nonce = result.Nonce
	c.logger.Debug(
		fmt.Sprintf(
			"built block with %d parents and nonce %d",
			len(block.Parents),
			block.Nonce,
		),
		"component", "client",
	)
	return block, nil
}

// SubmitPayload builds a block around payload and submits it to the node
func (c *Client) SubmitPayload(ctx context.Context, payload ledger.Payload) (common.BlockId, error) {
	block, err := c.BuildBlock(ctx, payload)
	if err != nil {
		return common.BlockId{}, err
	}
	blockId, err := c.nodeApi.SubmitBlock(ctx, block)
	if err != nil {
		return common.BlockId{}, fmt.Errorf("submit block: %w", err)
	}
	c.logger.Info(
		fmt.Sprintf("submitted block %s", blockId.String()),
		"component", "client",
		"network", c.network.Name,
	)
	return blockId, nil
}
