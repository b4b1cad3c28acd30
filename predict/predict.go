package predict

import (
	"errors"
	"fmt"
	"strconv"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/jonwraymond/sqlanalytics/resource"
)

// ErrPrediction marks a model request that cannot be fit.
var ErrPrediction = errors.New("prediction failed")

// ModelLinearRegression is the supported model type.
const ModelLinearRegression = "linear_regression"

// fittedCap bounds how many fitted values are carried in the payload.
const fittedCap = 100

// Request describes the model to fit.
type Request struct {
	Target    string
	Features  []string // default: every numeric column except the target
	ModelType string   // default: linear_regression
}

// Fit trains the requested model on the table and returns its result
// payload.
func Fit(table *resource.TablePayload, req Request) (*resource.MLPayload, error) {
	if table == nil || len(table.Rows) == 0 {
		return nil, fmt.Errorf("%w: table has no rows", ErrPrediction)
	}
	if req.Target == "" {
		return nil, fmt.Errorf("%w: target column is required", ErrPrediction)
	}
	modelType := req.ModelType
	if modelType == "" {
		modelType = ModelLinearRegression
	}
	if modelType != ModelLinearRegression {
		return nil, fmt.Errorf("%w: unknown model type %q", ErrPrediction, req.ModelType)
	}

	features := req.Features
	if len(features) == 0 {
		features = numericColumns(table, req.Target)
	}
	if len(features) == 0 {
		return nil, fmt.Errorf("%w: no numeric feature columns", ErrPrediction)
	}

	xs, ys := designMatrix(table, req.Target, features)
	n := len(ys)
	if n <= len(features) {
		return nil, fmt.Errorf("%w: %d rows cannot support %d features", ErrPrediction, n, len(features))
	}

	intercept, coefs, fitted, err := leastSquares(xs, ys, len(features))
	if err != nil {
		return nil, err
	}

	payload := &resource.MLPayload{
		ModelType:    ModelLinearRegression,
		Target:       req.Target,
		Features:     features,
		Coefficients: make(map[string]float64, len(features)),
		Intercept:    intercept,
		RSquared:     rSquared(ys, fitted),
		SampleSize:   n,
	}
	for i, f := range features {
		payload.Coefficients[f] = coefs[i]
	}
	if len(fitted) > fittedCap {
		fitted = fitted[:fittedCap]
	}
	payload.Fitted = fitted
	return payload, nil
}

// designMatrix extracts rows where the target and every feature are
// numeric. xs is row-major with len(features) columns.
func designMatrix(table *resource.TablePayload, target string, features []string) ([]float64, []float64) {
	xs := make([]float64, 0, len(table.Rows)*len(features))
	ys := make([]float64, 0, len(table.Rows))

rows:
	for _, row := range table.Rows {
		y, ok := toFloat(row[target])
		if !ok {
			continue
		}
		vals := make([]float64, len(features))
		for i, f := range features {
			v, ok := toFloat(row[f])
			if !ok {
				continue rows
			}
			vals[i] = v
		}
		xs = append(xs, vals...)
		ys = append(ys, y)
	}
	return xs, ys
}

// leastSquares solves y = b0 + X*b via QR factorization.
func leastSquares(xs, ys []float64, k int) (intercept float64, coefs, fitted []float64, err error) {
	n := len(ys)

	if k == 1 {
		// Single-feature path uses the closed form.
		alpha, beta := stat.LinearRegression(xs, ys, nil, false)
		fitted = make([]float64, n)
		for i, x := range xs {
			fitted[i] = alpha + beta*x
		}
		return alpha, []float64{beta}, fitted, nil
	}

	design := mat.NewDense(n, k+1, nil)
	for i := 0; i < n; i++ {
		design.Set(i, 0, 1)
		for j := 0; j < k; j++ {
			design.Set(i, j+1, xs[i*k+j])
		}
	}
	response := mat.NewVecDense(n, append([]float64(nil), ys...))

	var qr mat.QR
	qr.Factorize(design)

	var beta mat.VecDense
	if err := qr.SolveVecTo(&beta, false, response); err != nil {
		return 0, nil, nil, fmt.Errorf("%w: singular design matrix: %v", ErrPrediction, err)
	}

	var fit mat.VecDense
	fit.MulVec(design, &beta)

	coefs = make([]float64, k)
	for j := 0; j < k; j++ {
		coefs[j] = beta.AtVec(j + 1)
	}
	fitted = make([]float64, n)
	for i := 0; i < n; i++ {
		fitted[i] = fit.AtVec(i)
	}
	return beta.AtVec(0), coefs, fitted, nil
}

// rSquared is 1 - SS_res/SS_tot.
func rSquared(ys, fitted []float64) float64 {
	mean := stat.Mean(ys, nil)
	var ssRes, ssTot float64
	for i, y := range ys {
		d := y - fitted[i]
		ssRes += d * d
		t := y - mean
		ssTot += t * t
	}
	if ssTot == 0 {
		return 0
	}
	return 1 - ssRes/ssTot
}

func numericColumns(table *resource.TablePayload, target string) []string {
	var out []string
	for _, col := range table.Columns {
		if col == target {
			continue
		}
		for _, row := range table.Rows {
			if _, ok := toFloat(row[col]); ok {
				out = append(out, col)
				break
			}
		}
	}
	return out
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}
