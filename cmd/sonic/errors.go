package main

import "errors"

var errInvalidArgCount = errors.New("invalid argument count")
