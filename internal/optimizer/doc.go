// Package optimizer trains personal FSRS weights from review history.
//
// [Optimizer.Train] fits the 19 scheduler weights to a user's review
// log using mini-batch gradient descent with the [Adam] optimizer and
// [CosineAnnealing] learning rate schedule. Gradients are computed via
// numerical central differences on binary cross-entropy loss: each
// cross-day review is a labeled sample (recalled or not) and the
// model's predicted retrievability is the probability being scored.
//
// Training requires enough cross-day reviews to generalize; histories
// below the configured minimum return [ErrNotEnoughReviews] and the
// caller keeps using the default weights.
package optimizer
