// map_bench_test.go: benchmarks for Map operation throughput and memory
// footprint.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package arcmap

import (
	"fmt"
	"runtime"
	"strconv"
	"testing"
)

func BenchmarkMap_Insert(b *testing.B) {
	m := NewMap[string, int]()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Insert(strconv.Itoa(i), i)
	}
}

func BenchmarkMap_Get(b *testing.B) {
	m := NewMap[string, int]()
	const size = 10000
	for i := 0; i < size; i++ {
		m.Insert(strconv.Itoa(i), i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Get(strconv.Itoa(i % size))
	}
}

func BenchmarkMap_ConcurrentOps(b *testing.B) {
	m := NewMap[string, int]()
	const size = 10000
	for i := 0; i < size; i++ {
		m.Insert(strconv.Itoa(i), i)
	}

	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			key := strconv.Itoa(i % size)
			switch i % 4 {
			case 0:
				m.Insert(key, i)
			case 1:
				m.Get(key)
			case 2:
				m.Has(key)
			case 3:
				m.Remove(key)
			}
			i++
		}
	})
}

// BenchmarkMemoryFootprint_Populated measures memory usage of a map
// holding a range of entry counts.
func BenchmarkMemoryFootprint_Populated(b *testing.B) {
	sizes := []int{100, 1000, 10000, 100000}

	for _, size := range sizes {
		b.Run(fmt.Sprintf("Size%d", size), func(b *testing.B) {
			runtime.GC()
			var m1, m2 runtime.MemStats
			runtime.ReadMemStats(&m1)

			mp := NewMap[int, int]()
			for i := 0; i < size; i++ {
				mp.Insert(i, i)
			}

			runtime.GC()
			runtime.ReadMemStats(&m2)

			bytesUsed := m2.Alloc - m1.Alloc
			b.ReportMetric(float64(bytesUsed), "bytes")
			b.ReportMetric(float64(bytesUsed)/float64(size), "bytes/entry")

			_ = mp
		})
	}
}
