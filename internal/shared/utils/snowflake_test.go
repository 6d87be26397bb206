package utils

import (
	"sync"
	"testing"
)

func TestSnowflake_并发生成不重复且递增(t *testing.T) {
	s := MustSnowflake(3)

	const workers, perWorker = 8, 500
	var mu sync.Mutex
	seen := make(map[int64]struct{}, workers*perWorker)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			last := int64(0)
			for j := 0; j < perWorker; j++ {
				id := s.NextID()
				if id <= last {
					t.Errorf("期望同一协程内 id 递增，last=%d id=%d", last, id)
					return
				}
				last = id
				mu.Lock()
				seen[id] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if len(seen) != workers*perWorker {
		t.Fatalf("期望 %d 个不重复 id，got=%d", workers*perWorker, len(seen))
	}
}

func TestNewSnowflake_节点号越界报错(t *testing.T) {
	if _, err := NewSnowflake(maxNodeID + 1); err == nil {
		t.Fatalf("期望节点号越界返回错误")
	}
}

func TestSnowflake_同一毫秒内序列递增(t *testing.T) {
	s := MustSnowflake(7)
	s.nowFn = func() int64 { return 1767268800000 }

	first, second := s.NextID(), s.NextID()
	if second != first+1 {
		t.Fatalf("期望同一毫秒内序列 +1，first=%d second=%d", first, second)
	}
	if node := first >> seqBits & maxNodeID; node != 7 {
		t.Fatalf("期望节点位为 7，got=%d", node)
	}
}

func TestSnowflake_时钟回拨不回退(t *testing.T) {
	s := MustSnowflake(1)
	now := int64(1767268800000)
	s.nowFn = func() int64 { return now }
	a := s.NextID()
	now -= 5000
	if b := s.NextID(); b <= a {
		t.Fatalf("期望回拨后 id 仍递增，a=%d b=%d", a, b)
	}
}
