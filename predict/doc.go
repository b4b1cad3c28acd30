// Package predict fits lightweight predictive models over table
// snapshots.
//
// It is a tool adapter: given a resource.TablePayload, a target column,
// and optional feature columns, it fits an ordinary least squares model
// with gonum and returns a resource.MLPayload (coefficients, intercept,
// R², fitted values) ready to store. Feature columns default to every
// numeric column other than the target.
package predict
