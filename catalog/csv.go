package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rushteam/shoprec/core"
)

// CSV 列名约定（与数据导出脚本一致）：
//
//	products.csv:     product_id, product_name, category, price, rating, tags
//	transactions.csv: transaction_id, user_id, product_id, purchase_date, amount, quantity
//
// rating / tags / transaction_id / quantity 为可选列。
// purchase_date 使用 ISO-8601 日期（2006-01-02）。

// LoadProductsCSV 从 CSV 文件加载商品表。
func LoadProductsCSV(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open products csv: %w", err)
	}
	defer f.Close()
	return ReadProducts(f)
}

// ReadProducts 从 reader 读取商品表（首行为表头）。
func ReadProducts(r io.Reader) (*Catalog, error) {
	rows, header, err := readAll(r)
	if err != nil {
		return nil, fmt.Errorf("read products csv: %w", err)
	}

	products := make([]*core.Product, 0, len(rows))
	for i, row := range rows {
		p := &core.Product{
			ID:       header.get(row, "product_id"),
			Name:     header.get(row, "product_name"),
			Category: header.get(row, "category"),
			Tags:     header.get(row, "tags"),
		}
		if p.ID == "" {
			return nil, fmt.Errorf("products csv row %d: missing product_id", i+2)
		}
		if v := header.get(row, "price"); v != "" {
			p.Price, err = strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("products csv row %d: bad price %q", i+2, v)
			}
		}
		if p.Price < 0 {
			return nil, fmt.Errorf("products csv row %d: negative price", i+2)
		}
		if v := header.get(row, "rating"); v != "" {
			p.Rating, err = strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("products csv row %d: bad rating %q", i+2, v)
			}
		}
		products = append(products, p)
	}
	return NewCatalog(products)
}

// LoadTransactionsCSV 从 CSV 文件加载交易表。
func LoadTransactionsCSV(path string) (*Interactions, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open transactions csv: %w", err)
	}
	defer f.Close()
	return ReadTransactions(f)
}

// ReadTransactions 从 reader 读取交易表（首行为表头）。
func ReadTransactions(r io.Reader) (*Interactions, error) {
	rows, header, err := readAll(r)
	if err != nil {
		return nil, fmt.Errorf("read transactions csv: %w", err)
	}

	transactions := make([]*core.Transaction, 0, len(rows))
	for i, row := range rows {
		t := &core.Transaction{
			ID:        header.get(row, "transaction_id"),
			UserID:    header.get(row, "user_id"),
			ProductID: header.get(row, "product_id"),
		}
		if t.UserID == "" || t.ProductID == "" {
			return nil, fmt.Errorf("transactions csv row %d: missing user_id or product_id", i+2)
		}
		if v := header.get(row, "amount"); v != "" {
			t.Amount, err = strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("transactions csv row %d: bad amount %q", i+2, v)
			}
		}
		if t.Amount <= 0 {
			return nil, fmt.Errorf("transactions csv row %d: amount must be positive", i+2)
		}
		if v := header.get(row, "quantity"); v != "" {
			t.Quantity, err = strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("transactions csv row %d: bad quantity %q", i+2, v)
			}
		}
		if v := header.get(row, "purchase_date"); v != "" {
			t.PurchaseDate, err = time.Parse("2006-01-02", v)
			if err != nil {
				return nil, fmt.Errorf("transactions csv row %d: bad purchase_date %q", i+2, v)
			}
		}
		transactions = append(transactions, t)
	}
	return NewInteractions(transactions), nil
}

// AppendProductCSV 将一个新商品追加到商品表和 CSV 文件尾部。
// 先校验 ID 有序性，再落盘，避免内存表与文件不一致。
func AppendProductCSV(c *Catalog, path string, p *core.Product) error {
	if err := c.Append(p); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open products csv for append: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	record := []string{
		p.ID,
		p.Name,
		p.Category,
		strconv.FormatFloat(p.Price, 'f', -1, 64),
		strconv.FormatFloat(p.Rating, 'f', -1, 64),
		p.Tags,
	}
	if err := w.Write(record); err != nil {
		return fmt.Errorf("append products csv: %w", err)
	}
	w.Flush()
	return w.Error()
}

// columnIndex 把表头映射为 列名 -> 下标。
type columnIndex map[string]int

func (h columnIndex) get(row []string, name string) string {
	idx, ok := h[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func readAll(r io.Reader) ([][]string, columnIndex, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("empty csv")
	}

	header := make(columnIndex, len(records[0]))
	for i, name := range records[0] {
		header[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return records[1:], header, nil
}
