// Package gwcdkutil provides AWS CDK helpers for deploying a synthesized gateway.
//
// This package includes helpers for:
//   - Validated CDK context configuration
//   - Qualified stack naming per deployment
//   - Reproducible Go Lambda builds with source-derived asset hashes
package gwcdkutil
