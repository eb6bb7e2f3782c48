package files

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDiscovery(t *testing.T) {
	basePath := "/test/base"
	discovery := NewDiscovery(basePath)

	assert.NotNil(t, discovery)
	assert.Equal(t, basePath, discovery.basePath)
}

func TestFindMatFiles(t *testing.T) {
	tests := []struct {
		name          string
		files         []string
		expectedNames []string
		description   string
	}{
		{
			name:          "only MAT files",
			files:         []string{"charge_b.mat", "charge_a.mat", "charge_c.MAT"},
			expectedNames: []string{"charge_a.mat", "charge_b.mat", "charge_c.MAT"},
			description:   "Should find all MAT files regardless of case, in filename order",
		},
		{
			name:          "mixed file types",
			files:         []string{"batteries.mat", "notes.txt", "summary.csv", "extra.mat"},
			expectedNames: []string{"batteries.mat", "extra.mat"},
			description:   "Should find only MAT files",
		},
		{
			name:          "no MAT files",
			files:         []string{"data.csv", "doc.pdf", "readme.txt"},
			expectedNames: []string{},
			description:   "Should find no MAT files",
		},
		{
			name:          "empty directory",
			files:         []string{},
			expectedNames: []string{},
			description:   "Should handle empty directory",
		},
		{
			name:          "numbered batches keep lexical order",
			files:         []string{"batch_10.mat", "batch_02.mat", "batch_01.mat"},
			expectedNames: []string{"batch_01.mat", "batch_02.mat", "batch_10.mat"},
			description:   "Battery numbering depends on this ordering",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			discovery := NewDiscovery(tmpDir)

			testDir := "mat_test"
			fullTestDir := filepath.Join(tmpDir, testDir)
			err := os.MkdirAll(fullTestDir, 0755)
			require.NoError(t, err)

			for _, filename := range tt.files {
				filePath := filepath.Join(fullTestDir, filename)
				err := os.WriteFile(filePath, []byte("test content"), 0644)
				require.NoError(t, err)
			}

			files, err := discovery.FindMatFiles(testDir)
			assert.NoError(t, err, tt.description)

			names := make([]string, 0, len(files))
			for _, file := range files {
				names = append(names, file.Name)
			}
			assert.Equal(t, tt.expectedNames, names, tt.description)

			for _, file := range files {
				assert.NotEmpty(t, file.Path)
				assert.False(t, file.IsDir)
				assert.Greater(t, file.Size, int64(0))
				assert.False(t, file.ModTime.IsZero())
			}
		})
	}
}

func TestFindMatFilesSkipsSubdirectories(t *testing.T) {
	tmpDir := t.TempDir()
	discovery := NewDiscovery(tmpDir)

	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "nested.mat"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "real.mat"), []byte("x"), 0644))

	files, err := discovery.FindMatFiles(tmpDir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "real.mat", files[0].Name)
}

func TestFindCSVFiles(t *testing.T) {
	tests := []struct {
		name          string
		files         []string
		expectedCount int
		description   string
	}{
		{
			name:          "only CSV files",
			files:         []string{"data1.csv", "data2.CSV", "report.csv"},
			expectedCount: 3,
			description:   "Should find all CSV files regardless of case",
		},
		{
			name:          "mixed file types",
			files:         []string{"data.csv", "batteries.mat", "doc.pdf"},
			expectedCount: 1,
			description:   "Should find only CSV files",
		},
		{
			name:          "no CSV files",
			files:         []string{"batteries.mat", "doc.pdf", "readme.txt"},
			expectedCount: 0,
			description:   "Should find no CSV files",
		},
		{
			name:          "empty directory",
			files:         []string{},
			expectedCount: 0,
			description:   "Should handle empty directory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			discovery := NewDiscovery(tmpDir)

			testDir := "csv_test"
			fullTestDir := filepath.Join(tmpDir, testDir)
			err := os.MkdirAll(fullTestDir, 0755)
			require.NoError(t, err)

			for _, filename := range tt.files {
				filePath := filepath.Join(fullTestDir, filename)
				err := os.WriteFile(filePath, []byte("test,csv,content"), 0644)
				require.NoError(t, err)
			}

			files, err := discovery.FindCSVFiles(testDir)
			assert.NoError(t, err, tt.description)
			assert.Equal(t, tt.expectedCount, len(files), tt.description)

			for _, file := range files {
				assert.NotEmpty(t, file.Name)
				assert.True(t, filepath.Ext(file.Name) == ".csv" || filepath.Ext(file.Name) == ".CSV")
				assert.False(t, file.IsDir)
			}
		})
	}
}

func TestListDirectories(t *testing.T) {
	tests := []struct {
		name         string
		directories  []string
		files        []string
		expectedDirs int
		description  string
	}{
		{
			name:         "only directories",
			directories:  []string{"charge", "partial_charge"},
			files:        []string{},
			expectedDirs: 2,
			description:  "Should find all directories",
		},
		{
			name:         "mixed directories and files",
			directories:  []string{"charge"},
			files:        []string{"stray.mat", "notes.txt"},
			expectedDirs: 1,
			description:  "Should find only directories",
		},
		{
			name:         "no directories",
			directories:  []string{},
			files:        []string{"file1.txt", "file2.csv"},
			expectedDirs: 0,
			description:  "Should find no directories",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			discovery := NewDiscovery(tmpDir)

			testDir := "list_dirs_test"
			fullTestDir := filepath.Join(tmpDir, testDir)
			err := os.MkdirAll(fullTestDir, 0755)
			require.NoError(t, err)

			for _, dirName := range tt.directories {
				err := os.MkdirAll(filepath.Join(fullTestDir, dirName), 0755)
				require.NoError(t, err)
			}
			for _, fileName := range tt.files {
				err := os.WriteFile(filepath.Join(fullTestDir, fileName), []byte("test content"), 0644)
				require.NoError(t, err)
			}

			dirs, err := discovery.ListDirectories(testDir)
			assert.NoError(t, err, tt.description)
			assert.Equal(t, tt.expectedDirs, len(dirs), tt.description)

			for _, dir := range dirs {
				assert.NotEmpty(t, dir.Name)
				assert.NotEmpty(t, dir.Path)
				assert.True(t, dir.IsDir)
			}
		})
	}
}

func TestAbsolutePaths(t *testing.T) {
	tmpDir := t.TempDir()
	discovery := NewDiscovery("/base/path") // Different from tmpDir

	testDir := filepath.Join(tmpDir, "absolute_test")
	err := os.MkdirAll(testDir, 0755)
	require.NoError(t, err)

	testFiles := []string{"test1.mat", "test2.csv"}
	for _, filename := range testFiles {
		err := os.WriteFile(filepath.Join(testDir, filename), []byte("test content"), 0644)
		require.NoError(t, err)
	}

	t.Run("FindMatFiles with absolute path", func(t *testing.T) {
		files, err := discovery.FindMatFiles(testDir)
		assert.NoError(t, err)
		assert.Equal(t, 1, len(files))
	})

	t.Run("FindCSVFiles with absolute path", func(t *testing.T) {
		files, err := discovery.FindCSVFiles(testDir)
		assert.NoError(t, err)
		assert.Equal(t, 1, len(files))
	})

	t.Run("ListDirectories with absolute path", func(t *testing.T) {
		dirs, err := discovery.ListDirectories(tmpDir)
		assert.NoError(t, err)
		assert.GreaterOrEqual(t, len(dirs), 1)
	})
}

func TestErrorHandling(t *testing.T) {
	discovery := NewDiscovery("/base/path")

	t.Run("non-existent directory", func(t *testing.T) {
		_, err := discovery.FindMatFiles("/non/existent/directory")
		assert.Error(t, err)
	})
}

// Benchmark file discovery operations
func BenchmarkFindMatFiles(b *testing.B) {
	tmpDir := b.TempDir()
	discovery := NewDiscovery(tmpDir)

	testDir := filepath.Join(tmpDir, "benchmark_test")
	os.MkdirAll(testDir, 0755)

	for i := 0; i < 100; i++ {
		filename := filepath.Join(testDir, fmt.Sprintf("file_%03d.mat", i))
		os.WriteFile(filename, []byte("test"), 0644)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = discovery.FindMatFiles("benchmark_test")
	}
}
