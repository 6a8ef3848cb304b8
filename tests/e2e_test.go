package tests

import (
	"bytes"
	"crypto/sha256"
	"image"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/graphsteg/graphsteg/cmd"
	"github.com/graphsteg/graphsteg/pkg/carrier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeCover produces a noisy PNG cover image; flat covers give the
// matcher nothing to pair.
func writeCover(t *testing.T, path string, w, h int, seed int64) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	rand.New(rand.NewSource(seed)).Read(img.Pix)
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	require.NoError(t, carrier.NewImageCarrier(img).Save(path))
}

// TestConcealRevealJourney runs the full single-carrier user journey
// through the CLI: conceal into a cover, reveal from the output.
func TestConcealRevealJourney(t *testing.T) {
	tmpDir := t.TempDir()

	secretFile := filepath.Join(tmpDir, "secret_plans.txt")
	secretContent := make([]byte, 4096)
	_, err := rand.New(rand.NewSource(99)).Read(secretContent)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(secretFile, secretContent, 0644))
	originalHash := sha256.Sum256(secretContent)

	coverFile := filepath.Join(tmpDir, "cover.png")
	writeCover(t, coverFile, 300, 300, 1)

	stegoFile := filepath.Join(tmpDir, "cover_stego.png")
	root := cmd.GetRootCmd()
	root.SetArgs([]string{"conceal", secretFile, coverFile, "-p", "alohomora", "-o", stegoFile})
	require.NoError(t, root.Execute(), "conceal command failed")
	require.FileExists(t, stegoFile)

	// Remove the original so reveal provably recreates it.
	require.NoError(t, os.Remove(secretFile))

	root.SetArgs([]string{"reveal", stegoFile, "-p", "alohomora", "-d", tmpDir})
	require.NoError(t, root.Execute(), "reveal command failed")

	restored, err := os.ReadFile(filepath.Join(tmpDir, "secret_plans.txt"))
	require.NoError(t, err, "failed to read restored file")
	restoredHash := sha256.Sum256(restored)
	if !bytes.Equal(originalHash[:], restoredHash[:]) {
		t.Fatalf("restored file hash mismatch!\nOriginal: %x\nRestored: %x", originalHash, restoredHash)
	}
}

func TestRevealWrongPassphraseFails(t *testing.T) {
	tmpDir := t.TempDir()

	secretFile := filepath.Join(tmpDir, "s.txt")
	require.NoError(t, os.WriteFile(secretFile, []byte("hidden"), 0644))
	coverFile := filepath.Join(tmpDir, "cover.png")
	writeCover(t, coverFile, 150, 150, 2)

	stegoFile := filepath.Join(tmpDir, "out.png")
	root := cmd.GetRootCmd()
	root.SetArgs([]string{"conceal", secretFile, coverFile, "-p", "right", "-o", stegoFile})
	require.NoError(t, root.Execute())

	root.SetArgs([]string{"reveal", stegoFile, "-p", "wrong", "-d", tmpDir})
	err := root.Execute()
	require.Error(t, err, "reveal with the wrong passphrase must fail")
}

// TestSplitBindJourney spreads a file over three carriers, loses one,
// and binds the remaining two back together.
func TestSplitBindJourney(t *testing.T) {
	tmpDir := t.TempDir()
	shardDir := filepath.Join(tmpDir, "shards")

	secretFile := filepath.Join(tmpDir, "diary.txt")
	secretContent := make([]byte, 1500)
	_, err := rand.New(rand.NewSource(7)).Read(secretContent)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(secretFile, secretContent, 0644))

	var coverFiles []string
	for i := 0; i < 3; i++ {
		cover := filepath.Join(tmpDir, "covers", string(rune('a'+i))+".png")
		require.NoError(t, os.MkdirAll(filepath.Dir(cover), 0755))
		writeCover(t, cover, 200, 200, int64(10+i))
		coverFiles = append(coverFiles, cover)
	}

	root := cmd.GetRootCmd()
	args := append([]string{"split", secretFile}, coverFiles...)
	args = append(args, "-t", "2", "-p", "fidelius", "-d", shardDir)
	root.SetArgs(args)
	require.NoError(t, root.Execute(), "split command failed")

	shards, err := filepath.Glob(filepath.Join(shardDir, "*.png"))
	require.NoError(t, err)
	assert.Equal(t, 3, len(shards), "should have created 3 shard carriers")

	// Simulate disaster: one carrier is gone; threshold is 2.
	require.NoError(t, os.Remove(shards[1]))

	outDir := filepath.Join(tmpDir, "restored")
	require.NoError(t, os.MkdirAll(outDir, 0755))
	root.SetArgs([]string{"bind", shardDir, "-p", "fidelius", "-d", outDir})
	require.NoError(t, root.Execute(), "bind command failed")

	restored, err := os.ReadFile(filepath.Join(outDir, "diary.txt"))
	require.NoError(t, err)
	assert.Equal(t, secretContent, restored)
}

func TestCapacityCommand(t *testing.T) {
	tmpDir := t.TempDir()
	coverFile := filepath.Join(tmpDir, "cover.png")
	writeCover(t, coverFile, 100, 100, 3)

	root := cmd.GetRootCmd()
	root.SetArgs([]string{"capacity", coverFile})
	require.NoError(t, root.Execute())
}
