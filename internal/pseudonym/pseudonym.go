// Package pseudonym derives stable human-readable aliases for anonymous
// posting. The alias is a pure function of (user, pub): the same user keeps
// one name for a whole pub's discussion, but gets a different one in every
// other pub, so names cannot be matched across papers.
package pseudonym

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
)

// Fixed internal salt. Changing it renames every anonymous author, so it is
// part of the persisted-behavior surface even though nothing is stored.
const salt = "paperpub-pseudonym-v1"

var adjectives = []string{
	"Amber", "Bold", "Brisk", "Calm", "Clever", "Crimson", "Curious",
	"Daring", "Eager", "Gentle", "Hidden", "Humble", "Keen", "Lively",
	"Lucid", "Mellow", "Nimble", "Patient", "Quiet", "Rapid", "Silent",
	"Subtle", "Swift", "Vivid", "Wandering", "Witty",
}

var nouns = []string{
	"Albatross", "Badger", "Bison", "Condor", "Cricket", "Dolphin",
	"Falcon", "Fox", "Gazelle", "Heron", "Ibex", "Jackdaw", "Kestrel",
	"Lynx", "Marmot", "Narwhal", "Otter", "Owl", "Pangolin", "Quail",
	"Raven", "Salamander", "Starling", "Tapir", "Vole", "Wren",
}

// Derive returns the "Adjective Noun" alias for a user inside a pub.
func Derive(userID, pubID int) string {
	seed := fmt.Sprintf("%s:%d:%d", salt, userID, pubID)
	sum := sha256.Sum256([]byte(seed))

	adj := adjectives[binary.BigEndian.Uint32(sum[0:4])%uint32(len(adjectives))]
	noun := nouns[binary.BigEndian.Uint32(sum[4:8])%uint32(len(nouns))]
	return adj + " " + noun
}
