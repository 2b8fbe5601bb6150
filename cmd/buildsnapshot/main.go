// buildsnapshot converts a directory of tracking workbooks into the
// snapshot JSON the dashboard consumes. Each person keeps one workbook
// ("Checklist de Entregas - <nome>.xlsx", "Outras Atividades - <nome>.xlsx");
// the rows of every known sheet are merged per table and tagged with the
// originating filename, which is how the pipeline later derives the
// technician.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"delivery-dashboard/internal/concurrency"
)

// sheetTables maps workbook sheet names onto snapshot table names.
var sheetTables = map[string]string{
	"Checklist":         "checklist",
	"Outras Formações":  "outrasFormacoes",
	"Eventos":           "eventos",
	"Outras Atividades": "outrasAtividades",
}

type workbookRows map[string][]map[string]any

func main() {
	var (
		dir     = flag.String("dir", ".", "directory with .xlsx workbooks")
		outPath = flag.String("out", "snapshot.json", "output json path")
		workers = flag.Int("workers", 0, "parallel workbook readers (0 = default)")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	files, err := filepath.Glob(filepath.Join(*dir, "*.xlsx"))
	if err != nil {
		log.Fatal(err)
	}
	if len(files) == 0 {
		log.Fatalf("no .xlsx files under %s", *dir)
	}

	opts := concurrency.DefaultOptions()
	if *workers > 0 {
		opts.MaxWorkers = *workers
	}

	results, errs := concurrency.ProcessParallel(ctx, files, opts,
		func(ctx context.Context, _ int, path string) (workbookRows, error) {
			return readWorkbook(path)
		})
	for _, err := range errs {
		// A broken workbook skips its rows, the rest still export.
		log.Printf("warning: %v", err)
	}

	doc := map[string][]map[string]any{
		"checklist":        {},
		"outrasFormacoes":  {},
		"eventos":          {},
		"outrasAtividades": {},
	}
	for _, wb := range results {
		for table, rows := range wb {
			doc[table] = append(doc[table], rows...)
		}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		log.Fatalf("marshal error: %v", err)
	}
	if err := os.WriteFile(*outPath, data, 0o644); err != nil {
		log.Fatalf("write %s: %v", *outPath, err)
	}

	log.Printf("wrote %s: checklist=%d formações=%d eventos=%d atividades=%d",
		*outPath, len(doc["checklist"]), len(doc["outrasFormacoes"]),
		len(doc["eventos"]), len(doc["outrasAtividades"]))
}

func readWorkbook(path string) (workbookRows, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	filename := filepath.Base(path)
	out := workbookRows{}

	for _, sheet := range f.GetSheetList() {
		table, ok := sheetTables[sheet]
		if !ok {
			continue
		}
		// Raw values keep date cells as serials, which is what the
		// pipeline's date decoder expects.
		rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, err
		}
		out[table] = append(out[table], rowsToRecords(rows, filename)...)
	}
	return out, nil
}

// rowsToRecords turns a header row plus data rows into keyed records,
// tagging each with the source filename. Blank-header columns and fully
// empty rows are skipped.
func rowsToRecords(rows [][]string, filename string) []map[string]any {
	if len(rows) < 2 {
		return nil
	}
	headers := rows[0]

	var out []map[string]any
	for _, row := range rows[1:] {
		record := map[string]any{}
		empty := true
		for i, header := range headers {
			header = strings.TrimSpace(header)
			if header == "" || i >= len(row) {
				continue
			}
			cell := strings.TrimSpace(row[i])
			if cell == "" {
				continue
			}
			empty = false
			record[header] = cellValue(cell)
		}
		if empty {
			continue
		}
		record["filename"] = filename
		out = append(out, record)
	}
	return out
}

// cellValue emits numbers as JSON numbers and everything else verbatim.
func cellValue(s string) any {
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
