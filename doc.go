// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package tcsleep is the overall repository for a spiking thalamo-cortical
network model of memory consolidation during sleep, trained on HOG features
of handwritten digit images.

This top-level of the repository has no functional code -- everything is organized
into the following sub-repositories:

* engine: the Engine interface to a spiking network simulator (node models,
node collections, connection groups, the simulated clock), and Registry, an
in-memory engine that records the configured network, used for tests and dry runs.

* thalnet: builds the four populations (cortex Cx, cortical inhibitory
interneurons In, thalamic relay Tc and thalamic reticular Re) of AdEx neurons
with their static and STDP connections.

* stimulus: the Scheduler of Poisson generators: contextual, inhibitory and
training signals during the awake phases, and the sleep noise generator with
the switch of the network into the sleep regime.

* probe: multimeters and spike recorders attached to each population.

* features: HOG feature extraction of 28x28 images, binning of the descriptor
into one-hot masks over the thalamic relay population, and the HOG visualization.

* sim: the full protocol (train, retrieve, sleep) with its Config and ParamSets.

* examples: examples/sleepmnist runs the protocol on a directory of images and
saves all the resulting tables.
*/
package tcsleep
