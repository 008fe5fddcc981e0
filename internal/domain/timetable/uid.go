package timetable

import (
	"crypto/sha256"
	"encoding/base32"
	"encoding/binary"
	"hash"
	"strings"
)

// uidBytes - сколько байт дайджеста попадает в строковый uid
const uidBytes = 10

var uidEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// LessonDigest вычисляет SHA-256 пары.
// Порядок полей фиксирован: аудитория, преподаватель, название, подгруппа, номер.
func LessonDigest(l Lesson) [sha256.Size]byte {
	h := sha256.New()
	writeString(h, l.Classroom)
	writeString(h, l.Teacher)
	writeString(h, l.Name)
	writeUint(h, uint64(l.Subgroup))
	writeUint(h, uint64(l.Num))

	var sum [sha256.Size]byte
	copy(sum[:], h.Sum(nil))
	return sum
}

// Digest вычисляет SHA-256 группы по имени и парам в текущем порядке
func (g *Group) Digest() [sha256.Size]byte {
	h := sha256.New()
	writeString(h, g.Name)
	for _, l := range g.Lessons {
		d := LessonDigest(l)
		h.Write(d[:])
	}

	var sum [sha256.Size]byte
	copy(sum[:], h.Sum(nil))
	return sum
}

// ComputeUID возвращает uid группы
func (g *Group) ComputeUID() string {
	return encodeUID(g.Digest())
}

// ComputeUID возвращает uid снимка, группы обходятся в сохраненном порядке
func (s *Snapshot) ComputeUID() string {
	h := sha256.New()
	for i := range s.Groups {
		d := s.Groups[i].Digest()
		h.Write(d[:])
	}

	var sum [sha256.Size]byte
	copy(sum[:], h.Sum(nil))
	return encodeUID(sum)
}

func encodeUID(sum [sha256.Size]byte) string {
	return strings.ToLower(uidEncoding.EncodeToString(sum[:uidBytes]))
}

// writeString пишет строку с префиксом длины, чтобы "ab"+"c" не совпадало с "a"+"bc"
func writeString(h hash.Hash, s string) {
	writeUint(h, uint64(len(s)))
	h.Write([]byte(s))
}

func writeUint(h hash.Hash, n uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], n)
	h.Write(buf[:])
}
