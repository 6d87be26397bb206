package utils

import (
	"fmt"
	"sync"
	"time"
)

// id 布局（高位到低位）：41 位毫秒偏移 | 10 位节点 | 12 位序列。
// 起点 2024-01-01 UTC，可用到 2093 年。
const (
	idEpoch  int64 = 1704067200000
	nodeBits       = 10
	seqBits        = 12

	maxNodeID = 1<<nodeBits - 1
	seqMask   = 1<<seqBits - 1
)

// Snowflake 为行军、运输、挂单和战报生成全局唯一且单调递增的 id。
// 多节点部署时每个节点配置不同的 node_id。
type Snowflake struct {
	mu    sync.Mutex
	node  int64
	last  int64
	seq   int64
	nowFn func() int64
}

func NewSnowflake(nodeID int64) (*Snowflake, error) {
	if nodeID < 0 || nodeID > maxNodeID {
		return nil, fmt.Errorf("snowflake: node id %d 超出 [0,%d]", nodeID, maxNodeID)
	}
	return &Snowflake{node: nodeID, nowFn: func() int64 { return time.Now().UnixMilli() }}, nil
}

// MustSnowflake 启动期使用，node_id 越界直接 panic。
func MustSnowflake(nodeID int64) *Snowflake {
	s, err := NewSnowflake(nodeID)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Snowflake) NextID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	// 时钟回拨时沿用上一毫秒
	ms := max(s.nowFn(), s.last)
	switch {
	case ms > s.last:
		s.seq = 0
	case s.seq < seqMask:
		s.seq++
	default:
		for ms <= s.last {
			ms = s.nowFn()
		}
		s.seq = 0
	}
	s.last = ms
	return (ms-idEpoch)<<(nodeBits+seqBits) | s.node<<seqBits | s.seq
}
