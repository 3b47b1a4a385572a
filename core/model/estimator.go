// Package model は推定器が共有するインターフェースと学習状態の管理を提供します。
package model

import "gonum.org/v1/gonum/mat"

// Fitter は学習可能なモデルのインターフェース
type Fitter interface {
	// Fit はモデルを訓練データで学習させる。y は n×1 のクラスラベル列
	Fit(X, y mat.Matrix) error
}

// Predictor は予測可能なモデルのインターフェース
type Predictor interface {
	// Predict は各サンプルのクラスラベルを n×1 行列で返す
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Scorer はスコアを計算できるモデルのインターフェース
type Scorer interface {
	// Score は分類精度（accuracy）を返す
	Score(X, y mat.Matrix) (float64, error)
}

// Classifier は分類モデルのインターフェース
type Classifier interface {
	Fitter
	Predictor
	Scorer

	// PredictProba は n×クラス数 の確率行列を返す。列の順序は Classes() に従う
	PredictProba(X mat.Matrix) (mat.Matrix, error)

	// Classes は学習時に観測したクラスラベルを昇順で返す
	Classes() []float64
}

// FeatureImportancer は特徴量重要度を公開するモデルのインターフェース
type FeatureImportancer interface {
	// GetFeatureImportances は合計1に正規化された重要度を返す
	GetFeatureImportances() []float64
}
