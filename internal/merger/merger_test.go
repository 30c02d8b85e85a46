package merger

import (
	"path/filepath"
	"testing"

	"github.com/nconklindev/quizmerge/internal/config"
	"github.com/nconklindev/quizmerge/internal/converter"
	"github.com/nconklindev/quizmerge/internal/testkit"
	"github.com/nconklindev/quizmerge/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b_题库.xlsx", "a_questions.xlsx", "~$a_questions.xlsx", "notes.txt", "c.csv"} {
		testkit.WriteCSV(t, filepath.Join(dir, name), [][]string{{"x"}})
	}
	output := filepath.Join(dir, "merged_questions.xlsx")
	testkit.WriteCSV(t, output, [][]string{{"x"}})

	files, err := Discover(dir, []string{"*题库*.xlsx", "*.xlsx", "*.txt", "*.csv"}, []string{output})
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dir, "a_questions.xlsx"),
		filepath.Join(dir, "b_题库.xlsx"),
		filepath.Join(dir, "c.csv"),
	}, files)
}

func TestDiscover_BadPattern(t *testing.T) {
	_, err := Discover(t.TempDir(), []string{"[", "*.xlsx"}, nil)
	assert.Error(t, err)
}

func TestMerge_ConcatenatesInSortedOrder(t *testing.T) {
	dir := t.TempDir()
	testkit.WriteXLSX(t, filepath.Join(dir, "第二章_习题导出.xlsx"), testkit.ChapterTwo())
	testkit.WriteXLSX(t, filepath.Join(dir, "第一章_习题导出.xlsx"), testkit.ChapterOne())

	cfg := config.Default()
	res := Merge(dir, cfg, Options{})
	require.NoError(t, res.Err)

	require.Len(t, res.Files, 2)
	total := 0
	for _, f := range res.Files {
		total += f.Table.Len()
	}
	assert.Equal(t, total, res.Dataset.Len())
	assert.Equal(t, 7, res.Dataset.Len())

	// "第一章" sorts before "第二章" by code point
	src := cfg.SourceColumn()
	assert.Equal(t, "第一章_习题导出", res.Dataset.Rows[0][src])
	assert.Equal(t, "第二章_习题导出", res.Dataset.Rows[4][src])
	assert.Equal(t, "下列哪个是Python的特点？", res.Dataset.Rows[0]["题干"])
	assert.Equal(t, "列表的索引从哪个数字开始？", res.Dataset.Rows[4]["题干"])
}

func TestMerge_ExplicitFiles(t *testing.T) {
	dir := t.TempDir()
	one := filepath.Join(dir, "第一章_习题导出.xlsx")
	two := filepath.Join(dir, "第二章_习题导出.xlsx")
	testkit.WriteXLSX(t, one, testkit.ChapterOne())
	testkit.WriteXLSX(t, two, testkit.ChapterTwo())
	testkit.WriteXLSX(t, filepath.Join(dir, "第三章_习题导出.xlsx"), testkit.ChapterOne())

	// Pattern is ignored once files are given.
	res := Merge(dir, config.Default(), Options{Files: []string{two, one}, Pattern: "*.csv"})
	require.NoError(t, res.Err)

	require.Len(t, res.Files, 2)
	assert.Equal(t, one, res.Files[0].Path)
	assert.Equal(t, two, res.Files[1].Path)
	assert.Equal(t, 7, res.Dataset.Len())
}

func TestFilterByKeywords(t *testing.T) {
	files := []string{
		"/in/第一章_习题.xlsx",
		"/in/Chapter3.xlsx",
		"/in/Unit_QUIZ.csv",
		"/in/budget.xlsx",
		"/in/章节练习.xlsx",
		"/quiz/notes.xlsx",
	}

	got := FilterByKeywords(files, QuestionBankKeywords)

	assert.Equal(t, []string{
		"/in/第一章_习题.xlsx",
		"/in/Chapter3.xlsx",
		"/in/Unit_QUIZ.csv",
		"/in/章节练习.xlsx",
	}, got)
	assert.Empty(t, FilterByKeywords([]string{"/in/budget.xlsx"}, QuestionBankKeywords))
}

func TestMerge_SkipsBadFiles(t *testing.T) {
	dir := t.TempDir()
	testkit.WriteXLSX(t, filepath.Join(dir, "a.xlsx"), testkit.ChapterOne())
	testkit.WriteXLSX(t, filepath.Join(dir, "b.xlsx"), [][]string{{"desc"}, {"Name", "Hours"}, {"Alice", "8"}})
	testkit.WriteCSV(t, filepath.Join(dir, "c.xlsx"), [][]string{{"corrupt"}})

	res := Merge(dir, config.Default(), Options{Pattern: "*.xlsx"})
	require.NoError(t, res.Err)

	assert.Equal(t, 4, res.Dataset.Len())
	assert.Equal(t, 1, res.FilesUsed())

	skipped := res.Skipped()
	require.Len(t, skipped, 2)
	var missing *converter.MissingColumnError
	assert.ErrorAs(t, skipped[0].Err, &missing)
	assert.Error(t, skipped[1].Err)
}

func TestMerge_NoFiles(t *testing.T) {
	res := Merge(t.TempDir(), config.Default(), Options{})

	assert.ErrorIs(t, res.Err, ErrNoFiles)
	assert.Equal(t, 0, res.Dataset.Len())
}

func TestMerge_NoUsableFiles(t *testing.T) {
	dir := t.TempDir()
	testkit.WriteXLSX(t, filepath.Join(dir, "a.xlsx"), [][]string{{"x"}, {"y"}})

	res := Merge(dir, config.Default(), Options{})

	assert.ErrorIs(t, res.Err, ErrNoUsableFiles)
	assert.Len(t, res.Files, 1)
}

func TestMerge_ReportsProgress(t *testing.T) {
	dir := t.TempDir()
	testkit.WriteXLSX(t, filepath.Join(dir, "a.xlsx"), testkit.ChapterOne())
	testkit.WriteXLSX(t, filepath.Join(dir, "b.xlsx"), testkit.ChapterTwo())

	progress := make(chan float64, 10)
	res := Merge(dir, config.Default(), Options{Progress: progress})
	require.NoError(t, res.Err)
	close(progress)

	var got []float64
	for p := range progress {
		got = append(got, p)
	}
	assert.Equal(t, []float64{0.5, 1}, got)
}

func TestMerge_DescriptionRowExample(t *testing.T) {
	dir := t.TempDir()
	testkit.WriteXLSX(t, filepath.Join(dir, "bank.xlsx"), [][]string{
		testkit.DescriptionRow,
		{"题型", "题干", "正确答案"},
		{"单选题", "q1", "A"},
		{"单选题", "q2", ""},
		{"判断题", "q3", "对"},
	})

	cfg := config.Default()
	res := Merge(dir, cfg, Options{})
	require.NoError(t, res.Err)
	assert.Equal(t, 3, res.Dataset.Len())

	report := BuildReport(res.Dataset, cfg)
	require.NotNil(t, report.Missing)
	assert.Equal(t, 1, report.Missing.Count)
	assert.Equal(t, 33.3, report.Missing.Percent)
}

func TestBuildReport(t *testing.T) {
	cfg := config.Standard()
	ds := &types.Table{
		Columns: []string{"Source File", "Question Type", "Answer"},
		Rows: []types.Row{
			{"Source File": "a", "Question Type": "single", "Answer": "A"},
			{"Source File": "b", "Question Type": "multi", "Answer": ""},
			{"Source File": "b", "Question Type": "single", "Answer": "C"},
			{"Source File": "c", "Question Type": "judge", "Answer": " "},
		},
	}

	r := BuildReport(ds, cfg)

	assert.Equal(t, 4, r.Total)
	assert.Equal(t, []Count{{"b", 2}, {"a", 1}, {"c", 1}}, r.BySource)
	assert.Equal(t, []Count{{"single", 2}, {"multi", 1}, {"judge", 1}}, r.ByType)
	require.NotNil(t, r.Missing)
	assert.Equal(t, MissingAnswers{Count: 2, Percent: 50}, *r.Missing)

	sum := 0
	for _, c := range r.BySource {
		sum += c.Count
	}
	assert.Equal(t, r.Total, sum)
}

func TestBuildReport_OptionalSections(t *testing.T) {
	cfg := config.Standard()
	ds := &types.Table{
		Columns: []string{"Source File", "Question"},
		Rows:    []types.Row{{"Source File": "a", "Question": "q"}},
	}

	r := BuildReport(ds, cfg)

	assert.Nil(t, r.ByType)
	assert.Nil(t, r.Missing)
	assert.NotContains(t, r.Format(), "By type")
	assert.NotContains(t, r.Format(), "Missing answers")
}

func TestReportFormat(t *testing.T) {
	r := Report{
		Total:    3,
		BySource: []Count{{"ch1", 3}},
		ByType:   []Count{{"单选题", 2}, {"判断题", 1}},
		Missing:  &MissingAnswers{Count: 1, Percent: 33.3},
	}

	assert.Equal(t, `Total questions: 3
By source:
  ch1: 3
By type:
  单选题: 2
  判断题: 1
Missing answers:
  count: 1
  ratio: 33.3%
`, r.Format())
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 0.0, percent(0, 0))
	assert.Equal(t, 66.7, percent(2, 3))
	assert.Equal(t, 100.0, percent(5, 5))
}
