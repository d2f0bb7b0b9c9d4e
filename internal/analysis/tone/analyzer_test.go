package tone

import (
	"strings"
	"testing"
	"time"

	"github.com/elitechat/elite/backend/internal/model/roster"
)

func hasTrait(p Profile, fragment string) bool {
	for _, trait := range p.Traits {
		if strings.Contains(trait, fragment) {
			return true
		}
	}
	return false
}

func TestDescribeOnlinePartner(t *testing.T) {
	now := time.Date(2025, 6, 15, 15, 0, 0, 0, time.UTC)
	partner := roster.Summary{Name: "Ana", IsOnline: true, IsRead: true, Time: now.Add(-time.Hour)}

	profile := Describe(partner, now)
	if !hasTrait(profile, "quick to respond") {
		t.Fatalf("online partner should be responsive: %+v", profile.Traits)
	}
	if hasTrait(profile, "slight delay") {
		t.Fatal("online partner must not carry the offline trait")
	}
}

func TestDescribeStalePartnerApologizes(t *testing.T) {
	now := time.Date(2025, 6, 15, 15, 0, 0, 0, time.UTC)
	partner := roster.Summary{Name: "Bob", Time: now.Add(-48 * time.Hour), IsRead: true}

	profile := Describe(partner, now)
	if !hasTrait(profile, "replying late") {
		t.Fatalf("stale partner should apologize: %+v", profile.Traits)
	}
}

func TestDescribeFormalityByNameLength(t *testing.T) {
	now := time.Now()

	long := Describe(roster.Summary{Name: "Maximilian Oberhausen", Time: now, IsRead: true}, now)
	if !hasTrait(long, "formal language") {
		t.Fatalf("long name should read formal: %+v", long.Traits)
	}

	short := Describe(roster.Summary{Name: "Bob", Time: now, IsRead: true}, now)
	if !hasTrait(short, "casual") {
		t.Fatalf("short name should read casual: %+v", short.Traits)
	}
}

func TestDescribeVoiceClues(t *testing.T) {
	now := time.Now()

	female := Describe(roster.Summary{Name: "Maria", Avatar: "https://cdn/portraits/women/3.jpg", Time: now, IsRead: true}, now)
	if !hasTrait(female, "feminine voice") {
		t.Fatalf("women avatar should yield feminine voice: %+v", female.Traits)
	}

	male := Describe(roster.Summary{Name: "Marco", Avatar: "https://cdn/portraits/men/3.jpg", Time: now, IsRead: true}, now)
	if !hasTrait(male, "masculine voice") {
		t.Fatalf("men avatar should yield masculine voice: %+v", male.Traits)
	}
}

func TestDescribeNightOwl(t *testing.T) {
	at := time.Date(2025, 6, 15, 23, 30, 0, 0, time.UTC)
	profile := Describe(roster.Summary{Name: "Sam", Time: at, IsRead: true}, at)
	if !hasTrait(profile, "night owl") {
		t.Fatalf("late activity should read night owl: %+v", profile.Traits)
	}
}
