// Package testkit builds question-bank workbooks for tests.
package testkit

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// DescriptionRow is the free-text line that exported Chinese banks carry
// above their header.
var DescriptionRow = []string{"为保证导出的题目能正确导入，请勿修改表头格式。"}

// ChineseHeader matches the built-in default column mapping.
var ChineseHeader = []string{"题型", "题干", "正确答案", "解析", "分值", "难度系数", "选项A", "选项B", "选项C", "选项D"}

// ChapterOne is a description row, a header and four questions.
func ChapterOne() [][]string {
	return [][]string{
		DescriptionRow,
		ChineseHeader,
		{"单选题", "下列哪个是Python的特点？", "B", "Python是一种解释型、面向对象的高级编程语言", "1.0", "1", "编译型语言", "解释型语言", "汇编语言", "机器语言"},
		{"单选题", "Python中哪个关键字用于定义函数？", "D", "def是Python中定义函数的关键字", "1.0", "1", "function", "define", "func", "def"},
		{"多选题", "以下哪些是Python的数据类型？", "ABCD", "Python支持多种数据类型", "2.0", "2", "整数(int)", "字符串(str)", "列表(list)", "字典(dict)"},
		{"判断题", "Python是大小写敏感的。", "对", "Python中变量名是大小写敏感的", "1.0", "1"},
	}
}

// ChapterTwo is a description row, a header and three questions.
func ChapterTwo() [][]string {
	return [][]string{
		DescriptionRow,
		ChineseHeader,
		{"单选题", "列表的索引从哪个数字开始？", "A", "Python列表索引从0开始", "1.0", "1", "0", "1", "-1", "2"},
		{"单选题", "如何获取列表的长度？", "C", "len()函数用于获取序列的长度", "1.0", "1", "length()", "size()", "len()", "count()"},
		{"判断题", "Python字典是有序的。", "错", "在Python 3.7之前，字典是无序的", "1.0", "1"},
	}
}

// WriteXLSX writes rows to the first sheet of a new workbook at path.
func WriteXLSX(tb testing.TB, path string, rows [][]string) {
	tb.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		tb.Fatal(err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			tb.Fatal(err)
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			tb.Fatal(err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		tb.Fatal(err)
	}
}

// WriteCSV writes rows as a CSV file at path.
func WriteCSV(tb testing.TB, path string, rows [][]string) {
	tb.Helper()

	f, err := os.Create(path)
	if err != nil {
		tb.Fatal(err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		tb.Fatal(err)
	}
}
