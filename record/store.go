package record

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	filePrefix = "caller_id_"
	fileSuffix = ".json"
)

// ErrInvalidCallID 表示 call_id 不能安全地作为文件名使用。
var ErrInvalidCallID = errors.New("invalid call id")

// Entry 是列表扫描得到的记录元数据。
type Entry struct {
	CallID  string
	ModTime time.Time
}

// Store 将每个 call_id 的记录保存为 <dir>/caller_id_<call_id>.json。
// Store 自身不对同一 call_id 的读改写加锁，调用方需要时使用 Lock。
type Store struct {
	dir   string
	locks *KeyedMutex
}

// NewStore 创建 Store 并确保目录存在。
func NewStore(dir string) (*Store, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, fmt.Errorf("records dir is required")
	}
	s := &Store{dir: filepath.Clean(dir), locks: NewKeyedMutex()}
	if err := s.ensureDir(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) Dir() string { return s.dir }

// ValidateCallID 校验 call_id 是否可以作为单个文件名组成部分。
func ValidateCallID(callID string) error {
	switch {
	case callID == "", callID == ".", callID == "..":
		return ErrInvalidCallID
	case strings.ContainsAny(callID, `/\`), strings.ContainsRune(callID, 0):
		return ErrInvalidCallID
	}
	return nil
}

// Path 返回 call_id 对应的文件路径。
func (s *Store) Path(callID string) (string, error) {
	if err := ValidateCallID(callID); err != nil {
		return "", fmt.Errorf("%w: %q", err, callID)
	}
	return filepath.Join(s.dir, filePrefix+callID+fileSuffix), nil
}

// Lock 串行化同一 call_id 的读改写周期。
func (s *Store) Lock(callID string) (unlock func()) {
	return s.locks.Lock(callID)
}

// Load 读取记录；文件不存在时返回 (nil, nil)，内容损坏时返回解析错误。
func (s *Store) Load(callID string) (*Record, error) {
	p, err := s.Path(callID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureDir(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read record %s: %w", callID, err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var rec Record
	if err := dec.Decode(&rec); err != nil {
		return nil, fmt.Errorf("failed to parse record %s: %w", callID, err)
	}
	if rec.CallDetails == nil {
		rec.CallDetails = map[string]*Invocation{}
	}
	return &rec, nil
}

// Save 序列化记录并覆盖写入：先写同目录临时文件再 rename，读者只会看到完整的旧内容或新内容。
func (s *Store) Save(rec *Record) error {
	if rec == nil {
		return fmt.Errorf("record is nil")
	}
	p, err := s.Path(rec.CallID)
	if err != nil {
		return err
	}
	if err := s.ensureDir(); err != nil {
		return err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec); err != nil {
		return fmt.Errorf("failed to encode record %s: %w", rec.CallID, err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+filepath.Base(p)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		// rename 成功后该文件已不存在，删除失败可忽略
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write record %s: %w", rec.CallID, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write record %s: %w", rec.CallID, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("failed to write record %s: %w", rec.CallID, err)
	}
	if err := os.Rename(tmpName, p); err != nil {
		return fmt.Errorf("failed to replace record %s: %w", rec.CallID, err)
	}
	return nil
}

// List 枚举全部记录的 call_id 与修改时间，顺序不保证。目录不存在时会先创建并返回空列表。
func (s *Store) List() ([]Entry, error) {
	if err := s.ensureDir(); err != nil {
		return nil, err
	}
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan records dir: %w", err)
	}

	out := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		callID, ok := callIDFromFileName(de.Name())
		if !ok {
			continue
		}
		info, err := de.Info()
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to stat record %s: %w", callID, err)
		}
		out = append(out, Entry{CallID: callID, ModTime: info.ModTime()})
	}
	return out, nil
}

func callIDFromFileName(name string) (string, bool) {
	if !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
		return "", false
	}
	id := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix)
	if ValidateCallID(id) != nil {
		return "", false
	}
	return id, true
}

func (s *Store) ensureDir() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", s.dir, err)
	}
	return nil
}
