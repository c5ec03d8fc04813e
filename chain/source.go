package chain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"srxgraph/events"
)

// Applier consumes decoded events one at a time in chain order.
type Applier interface {
	Apply(ctx context.Context, ev events.Event) error
}

// Client is the subset of ethclient.Client the source needs.
type Client interface {
	BlockNumber(ctx context.Context) (uint64, error)
	FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error)
	SubscribeFilterLogs(ctx context.Context, q ethereum.FilterQuery, ch chan<- types.Log) (ethereum.Subscription, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
}

// Source streams contract logs into the applier: a ranged backfill from the
// configured start block, then a live subscription with reconnect. Duplicate
// delivery across the backfill/live seam is harmless because the applier
// deduplicates by replay cursor.
type Source struct {
	client    Client
	contract  common.Address
	decoder   *Decoder
	applier   Applier
	log       *slog.Logger
	start     uint64
	batchSize uint64

	stamps map[uint64]uint64
}

// NewSource wires a log source for the given contract address.
func NewSource(client Client, contract common.Address, applier Applier, start uint64, log *slog.Logger) (*Source, error) {
	decoder, err := NewDecoder()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}
	return &Source{
		client:    client,
		contract:  contract,
		decoder:   decoder,
		applier:   applier,
		log:       log.With("component", "chain"),
		start:     start,
		batchSize: 2000,
		stamps:    make(map[uint64]uint64),
	}, nil
}

// Run backfills then tails the chain until the context is cancelled.
func (s *Source) Run(ctx context.Context) error {
	head, err := s.client.BlockNumber(ctx)
	if err != nil {
		return fmt.Errorf("chain: head: %w", err)
	}
	next, err := s.backfill(ctx, s.start, head)
	if err != nil {
		return err
	}
	return s.tail(ctx, next)
}

// backfill applies every historical log in [from, head] and returns the first
// block the live tail should cover.
func (s *Source) backfill(ctx context.Context, from, head uint64) (uint64, error) {
	for from <= head {
		to := from + s.batchSize - 1
		if to > head {
			to = head
		}
		logs, err := s.client.FilterLogs(ctx, ethereum.FilterQuery{
			FromBlock: new(big.Int).SetUint64(from),
			ToBlock:   new(big.Int).SetUint64(to),
			Addresses: []common.Address{s.contract},
		})
		if err != nil {
			return 0, fmt.Errorf("chain: filter logs %d-%d: %w", from, to, err)
		}
		sortLogs(logs)
		for _, lg := range logs {
			if err := s.deliver(ctx, lg); err != nil {
				return 0, err
			}
		}
		from = to + 1
	}
	s.log.Info("backfill complete", "head", head)
	return head + 1, nil
}

// tail follows new logs, resubscribing with backoff when the node drops the
// connection.
func (s *Source) tail(ctx context.Context, from uint64) error {
	backoff := time.Second
	for {
		next, err := s.tailOnce(ctx, from)
		if err == nil || ctx.Err() != nil {
			return ctx.Err()
		}
		s.log.Warn("subscription lost", "error", err, "retry_in", backoff)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		if backoff < 30*time.Second {
			backoff *= 2
		}
		from = next
	}
}

func (s *Source) tailOnce(ctx context.Context, from uint64) (uint64, error) {
	ch := make(chan types.Log, 256)
	sub, err := s.client.SubscribeFilterLogs(ctx, ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(from),
		Addresses: []common.Address{s.contract},
	}, ch)
	if err != nil {
		return from, err
	}
	defer sub.Unsubscribe()

	last := from
	for {
		select {
		case <-ctx.Done():
			return last, ctx.Err()
		case err := <-sub.Err():
			return last, err
		case lg := <-ch:
			if lg.Removed {
				// Reorged-out log; the replacement arrives separately.
				continue
			}
			if err := s.deliver(ctx, lg); err != nil {
				return last, err
			}
			if lg.BlockNumber > last {
				last = lg.BlockNumber
			}
		}
	}
}

// deliver decodes and applies one log. Logs outside the contract ABI are
// dropped.
func (s *Source) deliver(ctx context.Context, lg types.Log) error {
	ts, err := s.timestampFor(ctx, lg.BlockNumber)
	if err != nil {
		return err
	}
	ev, err := s.decoder.Decode(lg, ts)
	if errors.Is(err, ErrUnknownEvent) {
		s.log.Debug("foreign log dropped", "block", lg.BlockNumber, "index", lg.Index)
		return nil
	}
	if err != nil {
		return fmt.Errorf("chain: decode log %d/%d: %w", lg.BlockNumber, lg.Index, err)
	}
	return s.applier.Apply(ctx, ev)
}

// timestampFor resolves a block's timestamp, memoizing per block so one
// header fetch serves every log in the block.
func (s *Source) timestampFor(ctx context.Context, block uint64) (uint64, error) {
	if ts, ok := s.stamps[block]; ok {
		return ts, nil
	}
	header, err := s.client.HeaderByNumber(ctx, new(big.Int).SetUint64(block))
	if err != nil {
		return 0, fmt.Errorf("chain: header %d: %w", block, err)
	}
	if len(s.stamps) > 4096 {
		s.stamps = make(map[uint64]uint64)
	}
	s.stamps[block] = header.Time
	return header.Time, nil
}

// sortLogs orders logs by (block, transaction index, log index), the replay
// order the indexer requires.
func sortLogs(logs []types.Log) {
	sort.Slice(logs, func(i, j int) bool {
		if logs[i].BlockNumber != logs[j].BlockNumber {
			return logs[i].BlockNumber < logs[j].BlockNumber
		}
		if logs[i].TxIndex != logs[j].TxIndex {
			return logs[i].TxIndex < logs[j].TxIndex
		}
		return logs[i].Index < logs[j].Index
	})
}
