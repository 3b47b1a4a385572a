// Package metrics は分類モデルの評価指標を提供します。
package metrics

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/sciforest/pkg/errors"
)

// Accuracy は正解率（一致したラベルの割合）を計算する
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	matches, n, err := countMatches("Accuracy", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return float64(matches) / float64(n), nil
}

// ClassificationError は誤分類率（1 - Accuracy）を計算する
func ClassificationError(yTrue, yPred *mat.VecDense) (float64, error) {
	matches, n, err := countMatches("ClassificationError", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return float64(n-matches) / float64(n), nil
}

// AccuracyMatrix は n×1 行列形式の入力に対して正解率を計算する
func AccuracyMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	rTrue, cTrue := yTrue.Dims()
	rPred, cPred := yPred.Dims()
	if cTrue != 1 {
		return 0, errors.NewDimensionError("AccuracyMatrix", 1, cTrue, 1)
	}
	if cPred != 1 {
		return 0, errors.NewDimensionError("AccuracyMatrix", 1, cPred, 1)
	}
	if rTrue != rPred {
		return 0, errors.NewDimensionError("AccuracyMatrix", rTrue, rPred, 0)
	}
	if rTrue == 0 {
		return 0, errors.NewValueError("AccuracyMatrix", "empty matrix")
	}

	trueVec := mat.NewVecDense(rTrue, nil)
	predVec := mat.NewVecDense(rPred, nil)
	for i := 0; i < rTrue; i++ {
		trueVec.SetVec(i, yTrue.At(i, 0))
		predVec.SetVec(i, yPred.At(i, 0))
	}
	return Accuracy(trueVec, predVec)
}

func countMatches(op string, yTrue, yPred *mat.VecDense) (int, int, error) {
	if yTrue == nil || yPred == nil || yTrue.Len() == 0 {
		return 0, 0, errors.NewValueError(op, "empty vector")
	}
	n := yTrue.Len()
	if yPred.Len() != n {
		return 0, 0, errors.NewDimensionError(op, n, yPred.Len(), 0)
	}

	matches := 0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == yPred.AtVec(i) {
			matches++
		}
	}
	return matches, n, nil
}
