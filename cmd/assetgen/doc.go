// Package main hosts the assetgen CLI entrypoint and command graph.
//
// The Cobra-based command tree loads configuration once, hands the requested
// asset kinds to the pipeline driver, and renders per-job results as a table.
// Doctor and config commands cover environment checks and scaffolding.
//
// Keep this package lean: conversion logic belongs in the internal packages;
// commands here only wire configuration, logging, and output together.
package main
