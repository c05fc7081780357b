package testsupport

import (
	"path/filepath"
	"testing"
)

// fakeFFmpegBody copies the first -i input to the last argument. Setting
// FAKE_FFMPEG_FAIL writes a partial file and exits 1; FAKE_FFMPEG_LOG appends
// each invocation's output path to that file.
const fakeFFmpegBody = `in=""
prev=""
for arg in "$@"; do
  if [ "$prev" = "-i" ] && [ -z "$in" ]; then in="$arg"; fi
  prev="$arg"
  out="$arg"
done
if [ -n "$FAKE_FFMPEG_LOG" ]; then echo "$out" >> "$FAKE_FFMPEG_LOG"; fi
if [ -n "$FAKE_FFMPEG_FAIL" ]; then
  printf 'partial' > "$out"
  echo "encoder crashed" >&2
  exit 1
fi
cp "$in" "$out"`

// FakeFFmpeg writes a copying ffmpeg stand-in into dir and returns its path.
func FakeFFmpeg(t testing.TB, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "ffmpeg")
	WriteScript(t, path, fakeFFmpegBody)
	return path
}
