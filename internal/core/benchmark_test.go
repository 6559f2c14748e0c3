package core

import (
	"fmt"
	"testing"
	"time"
)

// ============================================================================
// Conversion Function Benchmarks
// ============================================================================

// BenchmarkParseTimestamp benchmarks created_at parsing across accepted layouts.
// This runs once per imported record.
func BenchmarkParseTimestamp(b *testing.B) {
	testCases := []string{
		"2023-02-13 12:00:00",
		"2023-02-13T12:00:00Z",
		"2023-02-13T12:00:00",
		"2023-02-13",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, tc := range testCases {
			ParseTimestamp(tc)
		}
	}
}

// BenchmarkParseTimestamp_Canonical benchmarks the most common layout.
func BenchmarkParseTimestamp_Canonical(b *testing.B) {
	for i := 0; i < b.N; i++ {
		ParseTimestamp("2023-02-13 12:00:00")
	}
}

// BenchmarkCleanCell benchmarks cell cleaning.
func BenchmarkCleanCell(b *testing.B) {
	testCases := []string{
		"simple",
		"=\"227397825\"",
		"",
		"Kristin (14),Brittany (14)",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, tc := range testCases {
			CleanCell(tc)
		}
	}
}

// ============================================================================
// Filter Benchmarks
// ============================================================================

func BenchmarkValidEmail(b *testing.B) {
	testCases := []string{
		"greenmadison@example.net",
		"not-an-email",
		"a@b.c.d",
		"user@host.toolong",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, tc := range testCases {
			ValidEmail(tc)
		}
	}
}

func BenchmarkNormalizePhone(b *testing.B) {
	testCases := []string{
		"227397825",
		"+48 227 397 825",
		"(48)088691177",
		"00 48 088 691 177",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, tc := range testCases {
			NormalizePhone(tc)
		}
	}
}

// ============================================================================
// Pipeline Benchmarks
// ============================================================================

// generateRecords builds n records where roughly one in four shares a phone
// and one in eight shares an email with an earlier record.
func generateRecords(n int) []*UserRecord {
	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	records := make([]*UserRecord, n)
	for i := range records {
		phone := i
		if i%4 == 3 {
			phone = i - 1
		}
		email := i
		if i%8 == 7 {
			email = i - 3
		}
		records[i] = &UserRecord{
			FirstName: fmt.Sprintf("user%d", i),
			Phone:     fmt.Sprintf("%09d", phone),
			Email:     fmt.Sprintf("user%d@example.com", email),
			Role:      "user",
			CreatedAt: base.Add(time.Duration(i%97) * time.Hour),
			Children:  []ChildRecord{{Name: "kid", Age: i % 18}},
		}
	}
	return records
}

func BenchmarkDeduplicate(b *testing.B) {
	records := generateRecords(1000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Deduplicate(records)
	}
}

// BenchmarkDeduplicate_Large checks dedup stays linear on big collections.
func BenchmarkDeduplicate_Large(b *testing.B) {
	records := generateRecords(100000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Deduplicate(records)
	}
}

func BenchmarkAgeHistogram(b *testing.B) {
	records := generateRecords(10000)
	records[0].Role = RoleAdmin
	records[0].Password = "pw"
	reports := NewReports(records)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		reports.AgeHistogram(records[0].Email, "pw")
	}
}

// ============================================================================
// Parallel Benchmarks
// ============================================================================

func BenchmarkParseTimestampParallel(b *testing.B) {
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			ParseTimestamp("2023-02-13 12:00:00")
		}
	})
}

func BenchmarkValidEmailParallel(b *testing.B) {
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			ValidEmail("greenmadison@example.net")
		}
	})
}

// ============================================================================
// Memory Allocation Benchmarks
// ============================================================================

func BenchmarkConversionsAllocs(b *testing.B) {
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		ParseTimestamp("2023-02-13 12:00:00")
		ParseAge("14")
		CleanCell("=\"227397825\"")
		NormalizePhone("+48 227 397 825")
	}
}
