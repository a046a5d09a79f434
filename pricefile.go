package papertrade

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Price table file formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// OpenPriceTable loads a price table from a .json, .yaml or .yml file.
// selector is only used for JSON documents, see LoadPriceTable.
func OpenPriceTable(path, selector, currency string) (*PriceTable, error) {
	var format string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		format = FormatJSON
	case ".yaml", ".yml":
		format = FormatYAML
	default:
		return nil, fmt.Errorf("cannot guess price table format of %q", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open price table: %w", err)
	}
	defer f.Close()

	t, err := LoadPriceTable(f, format, selector, currency)
	if err != nil {
		return nil, fmt.Errorf("invalid price table %q: %w", path, err)
	}
	return t, nil
}

// LoadPriceTable reads a ticker to price mapping.
//
// A JSON document is queried with the JSONPath selector (default "$") which
// must designate an object whose properties are tickers and values are numbers
// or decimal strings. A YAML document is either that mapping or holds it under
// a "prices" key.
func LoadPriceTable(r io.Reader, format, selector, currency string) (*PriceTable, error) {
	var prices map[string]string
	var err error
	switch format {
	case FormatJSON:
		prices, err = decodeJSONPrices(r, selector)
	case FormatYAML:
		prices, err = decodeYAMLPrices(r)
	default:
		return nil, fmt.Errorf("unsupported price table format %q", format)
	}
	if err != nil {
		return nil, err
	}

	t := NewPriceTable(currency)
	var errs error
	for ticker, s := range prices {
		v, err := decimal.NewFromString(s)
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("price of %s: %q is not a number: %w", ticker, s, ErrInvalidPrice))
			continue
		}
		if err := t.Set(ticker, M(v, currency)); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	if errs != nil {
		return nil, errs
	}
	return t, nil
}

func decodeJSONPrices(r io.Reader, selector string) (map[string]string, error) {
	if selector == "" {
		selector = "$"
	}
	dec := json.NewDecoder(r)
	dec.UseNumber() // keep prices exact
	var jobj any
	if err := dec.Decode(&jobj); err != nil {
		return nil, fmt.Errorf("not a correct json: %w", err)
	}
	jval, err := jsonpath.Get(selector, jobj)
	if err != nil {
		return nil, fmt.Errorf("error evaluating %q: %w", selector, err)
	}
	// jsonpath may return a list of one answer, or a single answer.
	if jlist, ok := jval.([]any); ok && len(jlist) == 1 {
		jval = jlist[0]
	}
	m, ok := jval.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%q does not designate an object", selector)
	}

	prices := make(map[string]string, len(m))
	for ticker, v := range m {
		switch p := v.(type) {
		case json.Number:
			prices[ticker] = p.String()
		case string:
			prices[ticker] = p
		default:
			return nil, fmt.Errorf("price of %s must be a number, got %T: %w", ticker, v, ErrInvalidPrice)
		}
	}
	return prices, nil
}

func decodeYAMLPrices(r io.Reader) (map[string]string, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("not a correct yaml: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, errors.New("empty yaml document")
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected a mapping", root.Line)
	}
	// mapping nodes alternate keys and values
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value == "prices" && root.Content[i+1].Kind == yaml.MappingNode {
			root = root.Content[i+1]
			break
		}
	}

	prices := make(map[string]string, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		k, v := root.Content[i], root.Content[i+1]
		if v.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: price of %s must be a scalar: %w", v.Line, k.Value, ErrInvalidPrice)
		}
		prices[k.Value] = v.Value
	}
	return prices, nil
}
